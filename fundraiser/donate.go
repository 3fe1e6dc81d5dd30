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
	"errors"
	"fmt"
	"math/bits"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/blinklabs-io/crowdfund/address"
)

const operationDonate = "donate"

// checkOpen is the donation status guard
func checkOpen(status Status) error {
	switch status {
	case StatusDonationsOpen:
		return nil
	case StatusDonationsClosed, StatusCampaignEnded:
		return fmt.Errorf("%w: status %s", ErrClosedToDonations, status)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
}

// Donate moves amount from the donor's wallet into the fundraiser's custodial
// wallet. The donor must own donorWallet and it must hold the fundraiser's
// mint. A donation that brings the balance to the target closes the
// fundraiser to further donations
func (p *Program) Donate(
	ctx context.Context,
	donor address.Identity,
	fundraiserAddr address.Identity,
	donorWallet address.Identity,
	amount uint64,
) error {
	ctx, span := p.tracer.Start(
		ctx,
		operationDonate,
		trace.WithAttributes(
			attribute.String("fundraiser", fundraiserAddr.String()),
			attribute.String("donor", donor.String()),
			attribute.Int64("amount", int64(amount)), //nolint:gosec // informational only
		),
	)
	defer span.End()

	var donation DonationEvent
	var reached bool
	var target uint64
	err := p.executor.Execute(ctx, true, func(h Host) error {
		rec, err := p.loadRecord(h.Records(), fundraiserAddr)
		if err != nil {
			return err
		}
		if err := checkOpen(rec.Status); err != nil {
			return err
		}
		// Fundraiser addresses own custodial wallets and have no key to sign
		// with, so they can never act as a donor
		if _, err := h.Records().GetFundraiser(donor); err == nil {
			return fmt.Errorf("%w: %s is a fundraiser address", ErrUnauthorized, donor)
		} else if !errors.Is(err, ErrFundraiserNotFound) {
			return err
		}
		if amount == 0 {
			return ErrInvalidAmount
		}
		newBalance, carry := bits.Add64(rec.Balance, amount, 0)
		if carry != 0 {
			return fmt.Errorf(
				"%w: balance %d, donation %d",
				ErrBalanceOverflow,
				rec.Balance,
				amount,
			)
		}
		ledger := h.Ledger()
		if err := ledger.Transfer(
			donorWallet,
			rec.CustodialWallet,
			donor,
			amount,
		); err != nil {
			return fmt.Errorf("donation transfer: %w", err)
		}
		rec.Balance = newBalance
		wallet, err := loadWallet(ledger, rec.CustodialWallet)
		if err != nil {
			return err
		}
		if err := Reconcile(rec, wallet); err != nil {
			return err
		}
		if rec.TargetReached() {
			if err := rec.transition(StatusDonationsClosed); err != nil {
				return err
			}
			reached = true
		}
		if err := h.Records().UpdateFundraiser(fundraiserAddr, rec); err != nil {
			return err
		}
		target = rec.Target
		donation = DonationEvent{
			Fundraiser: fundraiserAddr,
			Donor:      donor,
			Wallet:     donorWallet,
			Amount:     amount,
			Balance:    rec.Balance,
		}
		h.AfterCommit(func() {
			p.publish(DonationEventType, donation)
			if reached {
				p.publish(TargetReachedEventType, TargetReachedEvent{
					Fundraiser: fundraiserAddr,
					Target:     target,
					Balance:    donation.Balance,
				})
			}
		})
		return nil
	})
	if err != nil {
		return p.fail(span, operationDonate, err)
	}

	p.logger.Info(
		"donation received",
		"fundraiser", fundraiserAddr.String(),
		"donor", donor.String(),
		"amount", amount,
		"balance", donation.Balance,
	)
	if p.metrics != nil {
		p.metrics.donations.Inc()
		p.metrics.donatedAmount.Add(float64(amount))
	}
	if reached {
		p.logger.Info(
			"fundraiser target reached, closed to donations",
			"fundraiser", fundraiserAddr.String(),
			"target", target,
			"balance", donation.Balance,
		)
		if p.metrics != nil {
			p.metrics.targetsReached.Inc()
		}
	}
	return nil
}
