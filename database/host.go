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

package database

import (
	"context"
	"time"

	"github.com/blinklabs-io/crowdfund/fundraiser"
	"github.com/blinklabs-io/crowdfund/token"
)

// host exposes a single Txn to the fundraiser program
type host struct {
	txn     *Txn
	records *recordStore
	ledger  *token.Program
}

func (d *Database) newHost(txn *Txn) *host {
	return &host{
		txn:     txn,
		records: &recordStore{db: d, txn: txn},
		ledger: token.NewProgram(
			&ledgerStore{db: d, txn: txn},
			d.walletReserve,
		),
	}
}

func (h *host) Records() fundraiser.RecordStore {
	return h.records
}

func (h *host) Ledger() fundraiser.Ledger {
	return h.ledger
}

func (h *host) AfterCommit(fn func()) {
	h.txn.OnCommit(fn)
}

// Execute runs fn in a new transaction, committing when fn succeeds and
// rolling back otherwise. Read-write calls run one at a time and exclude
// readers, so each operation observes the effects of every operation that
// finished before it
func (d *Database) Execute(
	ctx context.Context,
	readWrite bool,
	fn func(fundraiser.Host) error,
) error {
	return d.execute(ctx, readWrite, func(txn *Txn) error {
		return fn(d.newHost(txn))
	})
}

// ExecuteLedger is like Execute but hands fn the full token program, for
// mint administration that the fundraiser program has no business doing
func (d *Database) ExecuteLedger(
	ctx context.Context,
	readWrite bool,
	fn func(*token.Program) error,
) error {
	return d.execute(ctx, readWrite, func(txn *Txn) error {
		return fn(d.newHost(txn).ledger)
	})
}

func (d *Database) execute(
	ctx context.Context,
	readWrite bool,
	fn func(*Txn) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	if readWrite {
		d.execMutex.Lock()
		defer d.execMutex.Unlock()
	} else {
		d.execMutex.RLock()
		defer d.execMutex.RUnlock()
	}
	defer d.metrics.observeExec(readWrite, start)
	// The caller may have given up while we waited for the lock
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Transaction(readWrite).Do(fn)
}
