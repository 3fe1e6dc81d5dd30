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
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/fundraiser"
	"github.com/blinklabs-io/crowdfund/internal/node"
)

// submit encodes an instruction and processes it as signer. With printOnly
// the encoded instruction is printed in the form accepted by serve instead
func submit(
	cmd *cobra.Command,
	signer address.Identity,
	kind fundraiser.InstructionKind,
	args any,
	printOnly bool,
) error {
	data, err := fundraiser.EncodeInstruction(kind, args)
	if err != nil {
		return err
	}
	if printOnly {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", signer, hex.EncodeToString(data))
		return nil
	}
	return withNode(cmd, func(ctx context.Context, n *node.Node) error {
		return n.Program().Process(ctx, signer, data)
	})
}

func startCommand() *cobra.Command {
	var signer, mint string
	var target uint64
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "start <description>",
		Short: "Start a fundraiser owned by the signer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseIdentityArg("signer", signer)
			if err != nil {
				return err
			}
			mintId, err := parseIdentityArg("mint", mint)
			if err != nil {
				return err
			}
			if err := submit(
				cmd,
				owner,
				fundraiser.InstructionStartFundraiser,
				&fundraiser.StartFundraiserArgs{
					Description: args[0],
					Target:      target,
					Mint:        mintId.Bytes(),
				},
				printOnly,
			); err != nil {
				return err
			}
			if !printOnly {
				return showFundraiser(cmd, owner)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&signer, "signer", "", "fundraiser owner")
	cmd.Flags().StringVar(&mint, "mint", "", "mint accepted by the fundraiser")
	cmd.Flags().Uint64Var(&target, "target", 0, "target amount in base units")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the encoded instruction instead of running it")
	return cmd
}

func donateCommand() *cobra.Command {
	var signer, owner, wallet string
	var amount uint64
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "donate",
		Short: "Donate from the signer's wallet to a fundraiser",
		RunE: func(cmd *cobra.Command, args []string) error {
			donor, err := parseIdentityArg("signer", signer)
			if err != nil {
				return err
			}
			ownerId, err := parseIdentityArg("owner", owner)
			if err != nil {
				return err
			}
			programID, err := configProgramID(cmd)
			if err != nil {
				return err
			}
			fundraiserAddr, _, err := address.FundraiserAddress(programID, ownerId)
			if err != nil {
				return err
			}
			var walletId address.Identity
			if wallet != "" {
				if walletId, err = parseIdentityArg("wallet", wallet); err != nil {
					return err
				}
			} else {
				// Default to the donor's derived wallet for the fundraiser's mint
				if walletId, err = derivedWallet(cmd, donor, fundraiserAddr); err != nil {
					return err
				}
			}
			return submit(
				cmd,
				donor,
				fundraiser.InstructionDonate,
				&fundraiser.DonateArgs{
					Fundraiser: fundraiserAddr.Bytes(),
					Wallet:     walletId.Bytes(),
					Amount:     amount,
				},
				printOnly,
			)
		},
	}
	cmd.Flags().StringVar(&signer, "signer", "", "donor")
	cmd.Flags().StringVar(&owner, "owner", "", "owner of the fundraiser to donate to")
	cmd.Flags().StringVar(&wallet, "wallet", "", "donor wallet, defaults to the donor's derived wallet")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount in base units")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the encoded instruction instead of running it")
	return cmd
}

func withdrawCommand() *cobra.Command {
	var signer, destination string
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw the signer's fundraiser to a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseIdentityArg("signer", signer)
			if err != nil {
				return err
			}
			programID, err := configProgramID(cmd)
			if err != nil {
				return err
			}
			fundraiserAddr, _, err := address.FundraiserAddress(programID, owner)
			if err != nil {
				return err
			}
			var destId address.Identity
			if destination != "" {
				if destId, err = parseIdentityArg("destination", destination); err != nil {
					return err
				}
			} else if destId, err = derivedWallet(cmd, owner, fundraiserAddr); err != nil {
				return err
			}
			if err := submit(
				cmd,
				owner,
				fundraiser.InstructionWithdraw,
				&fundraiser.WithdrawArgs{
					Fundraiser:  fundraiserAddr.Bytes(),
					Destination: destId.Bytes(),
				},
				printOnly,
			); err != nil {
				return err
			}
			if !printOnly {
				return showFundraiser(cmd, owner)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&signer, "signer", "", "fundraiser owner")
	cmd.Flags().StringVar(&destination, "destination", "", "destination wallet, defaults to the owner's derived wallet")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the encoded instruction instead of running it")
	return cmd
}

func showCommand() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the fundraiser started by an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerId, err := parseIdentityArg("owner", owner)
			if err != nil {
				return err
			}
			return showFundraiser(cmd, ownerId)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "fundraiser owner")
	return cmd
}

func showFundraiser(cmd *cobra.Command, owner address.Identity) error {
	return withNode(cmd, func(ctx context.Context, n *node.Node) error {
		addr, err := n.Program().Address(owner)
		if err != nil {
			return err
		}
		rec, err := n.Program().Fundraiser(ctx, addr)
		if err != nil {
			return err
		}
		printRecord(cmd.OutOrStdout(), addr, rec)
		return nil
	})
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all fundraisers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNode(cmd, func(ctx context.Context, n *node.Node) error {
				entries, err := n.Database().ListFundraisers(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for i, entry := range entries {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printRecord(out, entry.Address, entry.Record)
				}
				return nil
			})
		},
	}
}

// derivedWallet returns the wallet owner would hold for the mint accepted by
// the fundraiser at fundraiserAddr
func derivedWallet(
	cmd *cobra.Command,
	owner address.Identity,
	fundraiserAddr address.Identity,
) (address.Identity, error) {
	var ret address.Identity
	err := withNode(cmd, func(ctx context.Context, n *node.Node) error {
		rec, err := n.Program().Fundraiser(ctx, fundraiserAddr)
		if err != nil {
			return err
		}
		ret, _, err = address.WalletAddress(n.Program().ProgramID(), owner, rec.Mint)
		return err
	})
	return ret, err
}
