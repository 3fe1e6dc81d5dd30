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

package fundraiser

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/token"
)

const operationWithdraw = "withdraw"

// Withdrawal describes a completed withdrawal
type Withdrawal struct {
	Fundraiser      address.Identity
	Owner           address.Identity
	Destination     address.Identity
	Amount          uint64
	ReserveRefunded uint64
	WalletClosed    bool
}

// Withdraw ends the campaign and moves everything held by the custodial
// wallet to destination, which must be a wallet owned by owner for the
// fundraiser's mint. The emptied custodial wallet is closed and its reserve
// returned to owner. Only the owner the fundraiser address was derived from
// may withdraw. The custodial wallet is moved and closed with the authority
// of the fundraiser address itself
func (p *Program) Withdraw(
	ctx context.Context,
	owner address.Identity,
	fundraiserAddr address.Identity,
	destination address.Identity,
) (*Withdrawal, error) {
	ctx, span := p.tracer.Start(
		ctx,
		operationWithdraw,
		trace.WithAttributes(
			attribute.String("fundraiser", fundraiserAddr.String()),
			attribute.String("owner", owner.String()),
			attribute.String("destination", destination.String()),
		),
	)
	defer span.End()

	expected, err := p.Address(owner)
	if err != nil {
		return nil, p.fail(span, operationWithdraw, err)
	}
	if expected != fundraiserAddr {
		return nil, p.fail(
			span,
			operationWithdraw,
			fmt.Errorf(
				"%w: %s does not derive %s",
				ErrUnauthorized,
				owner,
				fundraiserAddr,
			),
		)
	}

	ret := &Withdrawal{
		Fundraiser:  fundraiserAddr,
		Owner:       owner,
		Destination: destination,
	}
	err = p.executor.Execute(ctx, true, func(h Host) error {
		rec, err := p.loadRecord(h.Records(), fundraiserAddr)
		if err != nil {
			return err
		}
		if rec.Owner != owner {
			return fmt.Errorf("%w: owner is %s", ErrUnauthorized, rec.Owner)
		}
		ledger := h.Ledger()
		dest, err := ledger.Account(destination)
		if err != nil {
			return fmt.Errorf("destination wallet: %w", err)
		}
		if dest.Owner != owner {
			return fmt.Errorf(
				"%w: destination %s is owned by %s",
				ErrWalletOwnerMismatch,
				destination,
				dest.Owner,
			)
		}
		if dest.Mint != rec.Mint {
			return fmt.Errorf(
				"destination wallet: %w: holds %s, fundraiser accepts %s",
				token.ErrMintMismatch,
				dest.Mint,
				rec.Mint,
			)
		}
		wallet, err := loadWallet(ledger, rec.CustodialWallet)
		if err != nil {
			return err
		}
		if err := rec.transition(StatusCampaignEnded); err != nil {
			return err
		}
		amount := wallet.Amount
		if amount > 0 {
			if err := ledger.Transfer(
				rec.CustodialWallet,
				destination,
				fundraiserAddr,
				amount,
			); err != nil {
				return fmt.Errorf("withdrawal transfer: %w", err)
			}
		}
		rec.Balance = 0
		wallet, err = loadWallet(ledger, rec.CustodialWallet)
		if err != nil {
			return err
		}
		if err := Reconcile(rec, wallet); err != nil {
			return err
		}
		if wallet.Amount == 0 {
			reserve, err := ledger.CloseAccount(
				rec.CustodialWallet,
				owner,
				fundraiserAddr,
			)
			if err != nil {
				return fmt.Errorf("close custodial wallet: %w", err)
			}
			ret.ReserveRefunded = reserve
			ret.WalletClosed = true
		}
		if err := h.Records().UpdateFundraiser(fundraiserAddr, rec); err != nil {
			return err
		}
		ret.Amount = amount
		h.AfterCommit(func() {
			p.publish(WithdrawalEventType, WithdrawalEvent{Withdrawal: *ret})
		})
		return nil
	})
	if err != nil {
		return nil, p.fail(span, operationWithdraw, err)
	}

	p.logger.Info(
		"funds withdrawn",
		"fundraiser", fundraiserAddr.String(),
		"owner", owner.String(),
		"destination", destination.String(),
		"amount", ret.Amount,
		"wallet_closed", ret.WalletClosed,
	)
	if p.metrics != nil {
		p.metrics.withdrawals.Inc()
		p.metrics.withdrawnAmount.Add(float64(ret.Amount))
		if ret.WalletClosed {
			p.metrics.walletsClosed.Inc()
		}
	}
	return ret, nil
}
