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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/blinklabs-io/crowdfund/address"
)

const operationStart = "start_fundraiser"

// StartFundraiser creates the fundraiser record and custodial wallet for
// owner. Both are addressed deterministically from the owner, so each owner
// can have at most one fundraiser. The custodial wallet is owned by the
// record address rather than by owner, so value only leaves it through
// Withdraw
func (p *Program) StartFundraiser(
	ctx context.Context,
	owner address.Identity,
	description string,
	target uint64,
	mint address.Identity,
) (*Record, error) {
	ctx, span := p.tracer.Start(
		ctx,
		operationStart,
		trace.WithAttributes(
			attribute.String("owner", owner.String()),
			attribute.String("mint", mint.String()),
			attribute.Int64("target", int64(target)), //nolint:gosec // informational only
		),
	)
	defer span.End()

	if target == 0 {
		return nil, p.fail(span, operationStart, ErrInvalidTarget)
	}
	desc, err := NormalizeDescription(description)
	if err != nil {
		return nil, p.fail(span, operationStart, err)
	}
	recordAddr, bump, err := address.FundraiserAddress(p.programID, owner)
	if err != nil {
		return nil, p.fail(span, operationStart, err)
	}
	walletAddr, _, err := address.FundingWalletAddress(p.programID, owner)
	if err != nil {
		return nil, p.fail(span, operationStart, err)
	}

	var ret *Record
	err = p.executor.Execute(ctx, true, func(h Host) error {
		if _, err := h.Records().GetFundraiser(recordAddr); err == nil {
			return fmt.Errorf("%w: %s", ErrFundraiserExists, recordAddr)
		} else if !errors.Is(err, ErrFundraiserNotFound) {
			return err
		}
		wallet, err := h.Ledger().InitializeAccount(walletAddr, mint, recordAddr)
		if err != nil {
			return fmt.Errorf("initialize custodial wallet: %w", err)
		}
		rec := &Record{
			Owner:           owner,
			CustodialWallet: wallet.Address,
			Description:     desc,
			Target:          target,
			Balance:         0,
			Mint:            mint,
			Bump:            bump,
			Status:          StatusDonationsOpen,
		}
		if err := Reconcile(rec, wallet); err != nil {
			return err
		}
		if err := h.Records().CreateFundraiser(recordAddr, rec); err != nil {
			return err
		}
		ret = rec.Clone()
		h.AfterCommit(func() {
			p.publish(StartedEventType, StartedEvent{
				Fundraiser: recordAddr,
				Owner:      owner,
				Mint:       mint,
				Target:     target,
			})
		})
		return nil
	})
	if err != nil {
		return nil, p.fail(span, operationStart, err)
	}

	p.logger.Info(
		"fundraiser started",
		"fundraiser", recordAddr.String(),
		"owner", owner.String(),
		"mint", mint.String(),
		"target", target,
	)
	if p.metrics != nil {
		p.metrics.fundraisersStarted.Inc()
	}
	return ret, nil
}
