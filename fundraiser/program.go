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

// Package fundraiser implements the crowdfunding state machine: creating a
// fundraiser, accepting donations into its custodial wallet and letting the
// owner withdraw the collected funds.
package fundraiser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/event"
	"github.com/blinklabs-io/crowdfund/token"
)

const tracerName = "github.com/blinklabs-io/crowdfund/fundraiser"

// Program executes fundraiser operations through an Executor
type Program struct {
	programID    address.Identity
	executor     Executor
	logger       *slog.Logger
	eventBus     *event.EventBus
	promRegistry prometheus.Registerer
	metrics      *programMetrics
	tracer       trace.Tracer
}

type ProgramOptionFunc func(*Program)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) ProgramOptionFunc {
	return func(p *Program) {
		p.logger = logger
	}
}

// WithEventBus specifies the event bus that committed operations are
// published to
func WithEventBus(eventBus *event.EventBus) ProgramOptionFunc {
	return func(p *Program) {
		p.eventBus = eventBus
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) ProgramOptionFunc {
	return func(p *Program) {
		p.promRegistry = registry
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider
func WithTracerProvider(tp trace.TracerProvider) ProgramOptionFunc {
	return func(p *Program) {
		p.tracer = tp.Tracer(tracerName)
	}
}

// New returns a Program for programID that runs its operations through
// executor
func New(
	programID address.Identity,
	executor Executor,
	opts ...ProgramOptionFunc,
) *Program {
	p := &Program{
		programID: programID,
		executor:  executor,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		p.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	p.logger = p.logger.With("component", "fundraiser")
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}
	if p.promRegistry != nil {
		p.metrics = &programMetrics{}
		p.metrics.init(p.promRegistry)
	}
	return p
}

// ProgramID returns the identity used to derive fundraiser addresses
func (p *Program) ProgramID() address.Identity {
	return p.programID
}

// Address returns the fundraiser record address for owner
func (p *Program) Address(owner address.Identity) (address.Identity, error) {
	addr, _, err := address.FundraiserAddress(p.programID, owner)
	return addr, err
}

// Fundraiser returns a copy of the record stored at addr
func (p *Program) Fundraiser(
	ctx context.Context,
	addr address.Identity,
) (*Record, error) {
	var ret *Record
	err := p.executor.Execute(ctx, false, func(h Host) error {
		rec, err := h.Records().GetFundraiser(addr)
		if err != nil {
			return err
		}
		ret = rec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// FundraiserByOwner returns the record for the fundraiser started by owner
func (p *Program) FundraiserByOwner(
	ctx context.Context,
	owner address.Identity,
) (*Record, error) {
	addr, err := p.Address(owner)
	if err != nil {
		return nil, err
	}
	return p.Fundraiser(ctx, addr)
}

// Wallet returns the current state of a token account
func (p *Program) Wallet(
	ctx context.Context,
	addr address.Identity,
) (*token.Account, error) {
	var ret *token.Account
	err := p.executor.Execute(ctx, false, func(h Host) error {
		acct, err := h.Ledger().Account(addr)
		if err != nil {
			return err
		}
		ret = acct
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Program) publish(eventType event.EventType, data any) {
	if p.eventBus == nil {
		return
	}
	p.eventBus.Publish(eventType, event.NewEvent(eventType, data))
}

// fail records a failed operation on the span and in metrics
func (p *Program) fail(span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if p.metrics != nil {
		p.metrics.operationErrors.WithLabelValues(operation).Inc()
		if errors.Is(err, ErrErroneousBalance) {
			p.metrics.reconcileFailures.Inc()
		}
	}
	if errors.Is(err, ErrErroneousBalance) {
		p.logger.Error(
			"balance reconciliation failed",
			"operation", operation,
			"error", err,
		)
	} else {
		p.logger.Debug(
			"operation failed",
			"operation", operation,
			"error", err,
		)
	}
	return err
}

// loadRecord fetches the record at addr and checks that addr is what the
// record's owner and bump derive to
func (p *Program) loadRecord(
	records RecordStore,
	addr address.Identity,
) (*Record, error) {
	rec, err := records.GetFundraiser(addr)
	if err != nil {
		return nil, err
	}
	if err := address.VerifyProgramAddress(
		addr,
		rec.Bump,
		p.programID,
		[]byte(address.FundraiserSeed),
		rec.Owner[:],
	); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRecord, addr, err)
	}
	return rec, nil
}

// loadWallet reloads the custodial wallet, mapping a missing account to
// ErrWalletClosed
func loadWallet(ledger Ledger, addr address.Identity) (*token.Account, error) {
	wallet, err := ledger.Account(addr)
	if err != nil {
		if errors.Is(err, token.ErrAccountNotFound) {
			return nil, ErrWalletClosed
		}
		return nil, err
	}
	return wallet, nil
}
