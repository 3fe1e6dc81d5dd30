// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/fundraiser"
	"github.com/blinklabs-io/crowdfund/internal/config"
	"github.com/blinklabs-io/crowdfund/internal/node"
	"github.com/blinklabs-io/crowdfund/token"
)

var errNoConfig = errors.New("no config found in context")

// withNode opens a node for the duration of fn
func withNode(
	cmd *cobra.Command,
	fn func(ctx context.Context, n *node.Node) error,
) error {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return errNoConfig
	}
	logger := commonRun()
	n, err := node.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	err = fn(cmd.Context(), n)
	return errors.Join(err, n.Close())
}

// parseIdentityArg accepts an identity in bech32 or hex form. Anything else
// is treated as a name and hashed into an identity, which is convenient for
// local testing
func parseIdentityArg(name string, value string) (address.Identity, error) {
	if value == "" {
		return address.Identity{}, fmt.Errorf("--%s is required", name)
	}
	if id, err := address.ParseIdentity(value); err == nil {
		return id, nil
	}
	return address.IdentityFromSeed(value), nil
}

func printRecord(w io.Writer, addr address.Identity, rec *fundraiser.Record) {
	fmt.Fprintf(w, "fundraiser:  %s\n", addr)
	fmt.Fprintf(w, "owner:       %s\n", rec.Owner)
	fmt.Fprintf(w, "description: %s\n", rec.Description)
	fmt.Fprintf(w, "mint:        %s\n", rec.Mint)
	fmt.Fprintf(w, "wallet:      %s\n", rec.CustodialWallet)
	fmt.Fprintf(w, "target:      %d\n", rec.Target)
	fmt.Fprintf(w, "balance:     %d\n", rec.Balance)
	fmt.Fprintf(w, "status:      %s\n", rec.Status)
}

func printAccount(w io.Writer, acct *token.Account) {
	fmt.Fprintf(
		w,
		"%s mint=%s owner=%s amount=%d reserve=%d\n",
		acct.Address,
		acct.Mint,
		acct.Owner,
		acct.Amount,
		acct.Reserve,
	)
}

func configProgramID(cmd *cobra.Command) (address.Identity, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return address.Identity{}, errNoConfig
	}
	return cfg.ProgramIdentity()
}
