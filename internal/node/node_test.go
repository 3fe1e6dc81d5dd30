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

package node_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/fundraiser"
	"github.com/blinklabs-io/crowdfund/internal/config"
	"github.com/blinklabs-io/crowdfund/internal/node"
	"github.com/blinklabs-io/crowdfund/internal/test/testutil"
	"github.com/blinklabs-io/crowdfund/token"
)

func testConfig() *config.Config {
	return &config.Config{
		BlobPlugin:     config.DefaultBlobPlugin,
		MetadataPlugin: config.DefaultMetadataPlugin,
		ProgramId:      "node-test",
		WalletReserve:  token.DefaultAccountReserve,
	}
}

func openNode(t *testing.T, cfg *config.Config, opts ...node.OptionFunc) *node.Node {
	t.Helper()
	n, err := node.Open(context.Background(), cfg, nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, n.Close())
	})
	return n
}

func encode(t *testing.T, kind fundraiser.InstructionKind, args any) string {
	t.Helper()
	data, err := fundraiser.EncodeInstruction(kind, args)
	require.NoError(t, err)
	return hex.EncodeToString(data)
}

func TestProcessStream(t *testing.T) {
	n := openNode(t, testConfig())
	ctx := context.Background()
	programID := n.Program().ProgramID()
	owner := testutil.Identity("owner")
	donor := testutil.Identity("donor")
	mint := testutil.Identity("mint")
	authority := testutil.Identity("authority")
	donorWallet, _, err := address.WalletAddress(programID, donor, mint)
	require.NoError(t, err)
	ownerWallet, _, err := address.WalletAddress(programID, owner, mint)
	require.NoError(t, err)
	err = n.Database().ExecuteLedger(ctx, true, func(p *token.Program) error {
		if _, err := p.CreateMint(mint, authority, 0); err != nil {
			return err
		}
		if _, err := p.InitializeAccount(donorWallet, mint, donor); err != nil {
			return err
		}
		if _, err := p.InitializeAccount(ownerWallet, mint, owner); err != nil {
			return err
		}
		return p.MintTo(mint, donorWallet, authority, 1000)
	})
	require.NoError(t, err)
	fundraiserAddr, err := n.Program().Address(owner)
	require.NoError(t, err)

	lines := []string{
		"# start, donate twice, withdraw",
		fmt.Sprintf("%s %s", owner, encode(t, fundraiser.InstructionStartFundraiser, &fundraiser.StartFundraiserArgs{
			Description: "help",
			Target:      1000,
			Mint:        mint.Bytes(),
		})),
		"",
		fmt.Sprintf("%s %s", donor, encode(t, fundraiser.InstructionDonate, &fundraiser.DonateArgs{
			Fundraiser: fundraiserAddr.Bytes(),
			Wallet:     donorWallet.Bytes(),
			Amount:     400,
		})),
		fmt.Sprintf("%s %s", donor, encode(t, fundraiser.InstructionDonate, &fundraiser.DonateArgs{
			Fundraiser: fundraiserAddr.Bytes(),
			Wallet:     donorWallet.Bytes(),
			Amount:     600,
		})),
		// Non-owner withdraw fails
		fmt.Sprintf("%s %s", donor, encode(t, fundraiser.InstructionWithdraw, &fundraiser.WithdrawArgs{
			Fundraiser:  fundraiserAddr.Bytes(),
			Destination: donorWallet.Bytes(),
		})),
		fmt.Sprintf("%s %s", owner, encode(t, fundraiser.InstructionWithdraw, &fundraiser.WithdrawArgs{
			Fundraiser:  fundraiserAddr.Bytes(),
			Destination: ownerWallet.Bytes(),
		})),
		"not-an-instruction",
	}
	var out bytes.Buffer
	processed, failed, err := n.ProcessStream(
		ctx,
		strings.NewReader(strings.Join(lines, "\n")),
		&out,
	)
	require.NoError(t, err)
	assert.Equal(t, 6, processed)
	assert.Equal(t, 2, failed)

	results := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, results, 6)
	assert.Equal(t, "2 ok", results[0])
	assert.Equal(t, "4 ok", results[1])
	assert.Equal(t, "5 ok", results[2])
	assert.True(t, strings.HasPrefix(results[3], "6 error: "), results[3])
	assert.Equal(t, "7 ok", results[4])
	assert.Contains(t, results[5], node.ErrMalformedLine.Error())

	rec, err := n.Program().Fundraiser(ctx, fundraiserAddr)
	require.NoError(t, err)
	assert.Equal(t, fundraiser.StatusCampaignEnded, rec.Status)
	acct, err := n.Program().Wallet(ctx, ownerWallet)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), acct.Amount)
}

func TestProcessStreamCanceled(t *testing.T) {
	n := openNode(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := n.ProcessStream(ctx, strings.NewReader("x y\n"), io.Discard)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcessStreamCanceledWhileReading(t *testing.T) {
	n := openNode(t, testConfig())
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := n.ProcessStream(ctx, pr, io.Discard)
		done <- err
	}()
	testutil.RequireNoReceive[error](t, done, 50*time.Millisecond, "returned before cancel")
	cancel()
	err := testutil.RequireReceive[error](t, done, 2*time.Second, "waiting for canceled stream")
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenWithTracingStdout(t *testing.T) {
	cfg := testConfig()
	cfg.Tracing = true
	cfg.TracingStdout = true
	var buf bytes.Buffer
	n, err := node.Open(context.Background(), cfg, nil, node.WithTracingWriter(&buf))
	require.NoError(t, err)
	_, err = n.Program().FundraiserByOwner(context.Background(), testutil.Identity("nobody"))
	require.ErrorIs(t, err, fundraiser.ErrFundraiserNotFound)
	require.NoError(t, n.Close())
}

func TestMetricsServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	n := openNode(t, testConfig(), node.WithPromRegistry(reg))
	_, err := n.Program().FundraiserByOwner(context.Background(), testutil.Identity("nobody"))
	require.Error(t, err)

	srv, err := node.StartMetricsServer("127.0.0.1:0", reg, n.Database().Logger())
	require.NoError(t, err)
	defer srv.Shutdown(context.Background()) //nolint:errcheck

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "crowdfund_database_execute_duration_seconds")
}
