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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/internal/node"
	"github.com/blinklabs-io/crowdfund/token"
)

func mintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Manage token mints",
	}
	cmd.AddCommand(mintCreateCommand())
	cmd.AddCommand(mintToCommand())
	return cmd
}

func mintCreateCommand() *cobra.Command {
	var mint, authority string
	var decimals uint8
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a mint",
		RunE: func(cmd *cobra.Command, args []string) error {
			mintId, err := parseIdentityArg("mint", mint)
			if err != nil {
				return err
			}
			authorityId, err := parseIdentityArg("authority", authority)
			if err != nil {
				return err
			}
			return withNode(cmd, func(ctx context.Context, n *node.Node) error {
				return n.Database().ExecuteLedger(ctx, true, func(p *token.Program) error {
					m, err := p.CreateMint(mintId, authorityId, decimals)
					if err != nil {
						return err
					}
					fmt.Fprintf(
						cmd.OutOrStdout(),
						"%s authority=%s decimals=%d\n",
						m.Address,
						m.Authority,
						m.Decimals,
					)
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVar(&mint, "mint", "", "mint address")
	cmd.Flags().StringVar(&authority, "authority", "", "mint authority")
	cmd.Flags().Uint8Var(&decimals, "decimals", 0, "decimal places")
	return cmd
}

func mintToCommand() *cobra.Command {
	var mint, authority, owner string
	var amount uint64
	cmd := &cobra.Command{
		Use:   "to",
		Short: "Issue tokens into an owner's derived wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			mintId, err := parseIdentityArg("mint", mint)
			if err != nil {
				return err
			}
			authorityId, err := parseIdentityArg("authority", authority)
			if err != nil {
				return err
			}
			ownerId, err := parseIdentityArg("owner", owner)
			if err != nil {
				return err
			}
			return withNode(cmd, func(ctx context.Context, n *node.Node) error {
				wallet, _, err := address.WalletAddress(n.Program().ProgramID(), ownerId, mintId)
				if err != nil {
					return err
				}
				err = n.Database().ExecuteLedger(ctx, true, func(p *token.Program) error {
					return p.MintTo(mintId, wallet, authorityId, amount)
				})
				if err != nil {
					return err
				}
				acct, err := n.Program().Wallet(ctx, wallet)
				if err != nil {
					return err
				}
				printAccount(cmd.OutOrStdout(), acct)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mint, "mint", "", "mint address")
	cmd.Flags().StringVar(&authority, "authority", "", "mint authority")
	cmd.Flags().StringVar(&owner, "owner", "", "owner of the receiving wallet")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount in base units")
	return cmd
}

func walletCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage token wallets",
	}
	cmd.AddCommand(walletCreateCommand())
	cmd.AddCommand(walletListCommand())
	cmd.AddCommand(walletHistoryCommand())
	return cmd
}

func walletCreateCommand() *cobra.Command {
	var mint, owner string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the owner's derived wallet for a mint",
		RunE: func(cmd *cobra.Command, args []string) error {
			mintId, err := parseIdentityArg("mint", mint)
			if err != nil {
				return err
			}
			ownerId, err := parseIdentityArg("owner", owner)
			if err != nil {
				return err
			}
			return withNode(cmd, func(ctx context.Context, n *node.Node) error {
				wallet, _, err := address.WalletAddress(n.Program().ProgramID(), ownerId, mintId)
				if err != nil {
					return err
				}
				return n.Database().ExecuteLedger(ctx, true, func(p *token.Program) error {
					acct, err := p.InitializeAccount(wallet, mintId, ownerId)
					if err != nil {
						return err
					}
					printAccount(cmd.OutOrStdout(), acct)
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVar(&mint, "mint", "", "mint held by the wallet")
	cmd.Flags().StringVar(&owner, "owner", "", "wallet owner")
	return cmd
}

func walletListCommand() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the wallets held by an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerId, err := parseIdentityArg("owner", owner)
			if err != nil {
				return err
			}
			return withNode(cmd, func(ctx context.Context, n *node.Node) error {
				accounts, err := n.Database().TokenAccountsByOwner(ctx, ownerId)
				if err != nil {
					return err
				}
				for _, acct := range accounts {
					printAccount(cmd.OutOrStdout(), acct)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "wallet owner")
	return cmd
}

func walletHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <wallet>",
		Short: "Show the value movements into and out of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := parseIdentityArg("wallet", args[0])
			if err != nil {
				return err
			}
			return withNode(cmd, func(ctx context.Context, n *node.Node) error {
				entries, err := n.Database().TokenJournal(ctx, wallet, limit)
				if err != nil {
					return err
				}
				for _, entry := range entries {
					fmt.Fprintf(
						cmd.OutOrStdout(),
						"%-10s from=%s to=%s amount=%d\n",
						entry.Kind,
						entry.From,
						entry.To,
						entry.Amount,
					)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show, 0 for all")
	return cmd
}

func identityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "identity <name>...",
		Short: "Print the identity derived from each name",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, address.IdentityFromSeed(name))
			}
		},
	}
}
