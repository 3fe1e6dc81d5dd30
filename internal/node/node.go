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

// Package node assembles the database, event bus and fundraiser program
// described by a config into a running instance
package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blinklabs-io/crowdfund/database"
	"github.com/blinklabs-io/crowdfund/event"
	"github.com/blinklabs-io/crowdfund/fundraiser"
	"github.com/blinklabs-io/crowdfund/internal/config"
	"github.com/blinklabs-io/crowdfund/internal/tracing"
	"github.com/blinklabs-io/crowdfund/internal/version"
)

const serviceName = "crowdfund"

type Node struct {
	cfg             *config.Config
	logger          *slog.Logger
	promRegistry    prometheus.Registerer
	db              *database.Database
	eventBus        *event.EventBus
	program         *fundraiser.Program
	tracingShutdown func(context.Context) error
	// TracingWriter receives spans when tracingStdout is set. Defaults to
	// stdout
	tracingWriter io.Writer
}

type OptionFunc func(*Node)

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) OptionFunc {
	return func(n *Node) {
		n.promRegistry = registry
	}
}

// WithTracingWriter redirects stdout tracing output
func WithTracingWriter(w io.Writer) OptionFunc {
	return func(n *Node) {
		n.tracingWriter = w
	}
}

// Open builds a Node from cfg. The database is opened, and tracing set up
// when enabled. Callers must Close the returned Node
func Open(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	opts ...OptionFunc,
) (*Node, error) {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	n := &Node{
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	programID, err := cfg.ProgramIdentity()
	if err != nil {
		return nil, fmt.Errorf("program ID: %w", err)
	}
	// Configure tracing
	if cfg.Tracing {
		shutdown, err := tracing.Setup(ctx, tracing.Config{
			ServiceName:    serviceName,
			ServiceVersion: version.GetVersionString(),
			Stdout:         cfg.TracingStdout,
			StdoutWriter:   n.tracingWriter,
		})
		if err != nil {
			return nil, err
		}
		n.tracingShutdown = shutdown
	}
	db, err := database.New(&database.Config{
		Logger:         logger,
		PromRegistry:   n.promRegistry,
		DataDir:        cfg.DatabasePath,
		BlobPlugin:     cfg.BlobPlugin,
		MetadataPlugin: cfg.MetadataPlugin,
		WalletReserve:  cfg.WalletReserve,
	})
	if err != nil {
		var tsErr database.CommitTimestampError
		if db == nil || !errors.As(err, &tsErr) {
			_ = n.Close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// The stores disagree on their last commit. Keep going so the
		// operator can inspect the state, but make the problem visible
		logger.Warn(
			"database initialization error, needs recovery",
			"component", "node",
			"error", err,
		)
	}
	n.db = db
	n.eventBus = event.NewEventBus(n.promRegistry, logger)
	n.program = fundraiser.New(
		programID,
		db,
		fundraiser.WithLogger(logger),
		fundraiser.WithEventBus(n.eventBus),
		fundraiser.WithPromRegistry(n.promRegistry),
	)
	n.eventBus.SubscribeFunc(
		fundraiser.TargetReachedEventType,
		func(evt event.Event) {
			data, ok := evt.Data.(fundraiser.TargetReachedEvent)
			if !ok {
				return
			}
			logger.Info(
				"fundraiser reached its target",
				"component", "node",
				"fundraiser", data.Fundraiser.String(),
				"target", data.Target,
				"balance", data.Balance,
			)
		},
	)
	return n, nil
}

func (n *Node) Database() *database.Database {
	return n.db
}

func (n *Node) EventBus() *event.EventBus {
	return n.eventBus
}

func (n *Node) Program() *fundraiser.Program {
	return n.program
}

// Close stops the event bus, flushes traces and closes the database
func (n *Node) Close() error {
	var err error
	if n.eventBus != nil {
		n.eventBus.Stop()
	}
	if n.tracingShutdown != nil {
		err = errors.Join(err, n.tracingShutdown(context.Background()))
	}
	if n.db != nil {
		err = errors.Join(err, n.db.Close())
	}
	return err
}
