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

package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/crowdfund/database"
	"github.com/blinklabs-io/crowdfund/database/types"
	"github.com/blinklabs-io/crowdfund/fundraiser"
	"github.com/blinklabs-io/crowdfund/internal/test/testutil"
	"github.com/blinklabs-io/crowdfund/token"
)

var errBoom = errors.New("boom")

func newTestDatabase(t *testing.T, dataDir string) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func testRecord() *fundraiser.Record {
	return &fundraiser.Record{
		Owner:           testutil.Identity("owner"),
		CustodialWallet: testutil.Identity("wallet"),
		Description:     "community garden",
		Target:          1000,
		Mint:            testutil.Identity("mint"),
		Bump:            254,
		Status:          fundraiser.StatusDonationsOpen,
	}
}

func createMint(t *testing.T, db *database.Database) {
	t.Helper()
	err := db.ExecuteLedger(
		context.Background(),
		true,
		func(p *token.Program) error {
			_, err := p.CreateMint(
				testutil.Identity("mint"),
				testutil.Identity("authority"),
				6,
			)
			return err
		},
	)
	require.NoError(t, err)
}

func TestExecuteCommitsBothStores(t *testing.T) {
	db := newTestDatabase(t, "")
	createMint(t, db)
	ctx := context.Background()
	addr := testutil.Identity("fundraiser")

	err := db.Execute(ctx, true, func(h fundraiser.Host) error {
		if _, err := h.Ledger().InitializeAccount(
			testutil.Identity("wallet"),
			testutil.Identity("mint"),
			testutil.Identity("owner"),
		); err != nil {
			return err
		}
		return h.Records().CreateFundraiser(addr, testRecord())
	})
	require.NoError(t, err)

	err = db.Execute(ctx, false, func(h fundraiser.Host) error {
		rec, err := h.Records().GetFundraiser(addr)
		require.NoError(t, err)
		assert.Equal(t, testRecord(), rec)
		wallet, err := h.Ledger().Account(testutil.Identity("wallet"))
		require.NoError(t, err)
		assert.Equal(t, token.DefaultAccountReserve, wallet.Reserve)
		return nil
	})
	require.NoError(t, err)

	blobTs, err := db.Blob().GetCommitTimestamp()
	require.NoError(t, err)
	metadataTs, err := db.Metadata().GetCommitTimestamp()
	require.NoError(t, err)
	assert.Positive(t, blobTs)
	assert.Equal(t, blobTs, metadataTs)
}

func TestExecuteRollsBackOnError(t *testing.T) {
	db := newTestDatabase(t, "")
	createMint(t, db)
	ctx := context.Background()
	addr := testutil.Identity("fundraiser")

	err := db.Execute(ctx, true, func(h fundraiser.Host) error {
		if _, err := h.Ledger().InitializeAccount(
			testutil.Identity("wallet"),
			testutil.Identity("mint"),
			testutil.Identity("owner"),
		); err != nil {
			return err
		}
		if err := h.Records().CreateFundraiser(addr, testRecord()); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	err = db.Execute(ctx, false, func(h fundraiser.Host) error {
		_, err := h.Records().GetFundraiser(addr)
		require.ErrorIs(t, err, fundraiser.ErrFundraiserNotFound)
		_, err = h.Ledger().Account(testutil.Identity("wallet"))
		require.ErrorIs(t, err, token.ErrAccountNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestAfterCommitHooks(t *testing.T) {
	db := newTestDatabase(t, "")
	ctx := context.Background()
	var ran []string

	err := db.Execute(ctx, true, func(h fundraiser.Host) error {
		h.AfterCommit(func() { ran = append(ran, "first") })
		h.AfterCommit(func() { ran = append(ran, "second") })
		assert.Empty(t, ran, "hooks must not run before commit")
		return h.Records().CreateFundraiser(testutil.Identity("fundraiser"), testRecord())
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ran)

	ran = nil
	err = db.Execute(ctx, true, func(h fundraiser.Host) error {
		h.AfterCommit(func() { ran = append(ran, "rolled back") })
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, ran)

	err = db.Execute(ctx, false, func(h fundraiser.Host) error {
		h.AfterCommit(func() { ran = append(ran, "read only") })
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, ran)
}

func TestRecordStoreCreateAndUpdate(t *testing.T) {
	db := newTestDatabase(t, "")
	ctx := context.Background()
	addr := testutil.Identity("fundraiser")

	err := db.Execute(ctx, true, func(h fundraiser.Host) error {
		err := h.Records().UpdateFundraiser(addr, testRecord())
		require.ErrorIs(t, err, fundraiser.ErrFundraiserNotFound)
		require.NoError(t, h.Records().CreateFundraiser(addr, testRecord()))
		err = h.Records().CreateFundraiser(addr, testRecord())
		require.ErrorIs(t, err, fundraiser.ErrFundraiserExists)
		rec := testRecord()
		rec.Balance = 10
		return h.Records().UpdateFundraiser(addr, rec)
	})
	require.NoError(t, err)

	entries, err := db.ListFundraisers(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, addr, entries[0].Address)
	assert.Equal(t, uint64(10), entries[0].Record.Balance)
}

func TestReadOnlyExecuteRejectsWrites(t *testing.T) {
	db := newTestDatabase(t, "")
	err := db.Execute(context.Background(), false, func(h fundraiser.Host) error {
		return h.Records().CreateFundraiser(testutil.Identity("fundraiser"), testRecord())
	})
	require.ErrorIs(t, err, types.ErrReadOnlyTxn)

	err = db.ExecuteLedger(context.Background(), false, func(p *token.Program) error {
		_, err := p.CreateMint(testutil.Identity("mint"), testutil.Identity("authority"), 0)
		return err
	})
	require.ErrorIs(t, err, types.ErrReadOnlyTxn)
}

func TestExecuteCanceledContext(t *testing.T) {
	db := newTestDatabase(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := db.Execute(ctx, true, func(fundraiser.Host) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTokenQueries(t *testing.T) {
	db := newTestDatabase(t, "")
	createMint(t, db)
	ctx := context.Background()
	owner := testutil.Identity("owner")
	err := db.ExecuteLedger(ctx, true, func(p *token.Program) error {
		for _, name := range []string{"a", "b"} {
			if _, err := p.InitializeAccount(
				testutil.Identity(name),
				testutil.Identity("mint"),
				owner,
			); err != nil {
				return err
			}
		}
		if err := p.MintTo(
			testutil.Identity("mint"),
			testutil.Identity("a"),
			testutil.Identity("authority"),
			500,
		); err != nil {
			return err
		}
		return p.Transfer(
			testutil.Identity("a"),
			testutil.Identity("b"),
			owner,
			200,
		)
	})
	require.NoError(t, err)

	accounts, err := db.TokenAccountsByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, uint64(300), accounts[0].Amount)
	assert.Equal(t, uint64(200), accounts[1].Amount)

	journal, err := db.TokenJournal(ctx, testutil.Identity("a"), 0)
	require.NoError(t, err)
	require.Len(t, journal, 3)
	assert.Equal(t, token.JournalKindTransfer, journal[0].Kind)
	assert.Equal(t, testutil.Identity("b"), journal[0].To)
	assert.Equal(t, uint64(200), journal[0].Amount)
	assert.Equal(t, token.JournalKindMintTo, journal[1].Kind)
	assert.Equal(t, token.JournalKindInitialize, journal[2].Kind)

	latest, err := db.TokenJournal(ctx, testutil.Identity("a"), 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, token.JournalKindTransfer, latest[0].Kind)
}

func TestCustomWalletReserve(t *testing.T) {
	db, err := database.New(&database.Config{WalletReserve: 42})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, uint64(42), db.WalletReserve())
}

func TestPersistence(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	addr := testutil.Identity("fundraiser")
	err = db.Execute(context.Background(), true, func(h fundraiser.Host) error {
		return h.Records().CreateFundraiser(addr, testRecord())
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	db = newTestDatabase(t, dataDir)
	assert.Equal(t, dataDir, db.DataDir())
	err = db.Execute(context.Background(), false, func(h fundraiser.Host) error {
		rec, err := h.Records().GetFundraiser(addr)
		if err != nil {
			return err
		}
		assert.Equal(t, "community garden", rec.Description)
		return nil
	})
	require.NoError(t, err)
}

func TestCommitTimestampMismatch(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	err = db.Execute(context.Background(), true, func(h fundraiser.Host) error {
		return h.Records().CreateFundraiser(testutil.Identity("fundraiser"), testRecord())
	})
	require.NoError(t, err)
	// Simulate a commit interrupted between the two stores
	txn := db.Blob().NewTransaction(true)
	require.NoError(t, db.Blob().SetCommitTimestamp(1, txn))
	require.NoError(t, txn.Commit())
	require.NoError(t, db.Close())

	db, err = database.New(&database.Config{DataDir: dataDir})
	require.NotNil(t, db)
	defer db.Close()
	var tsErr database.CommitTimestampError
	require.ErrorAs(t, err, &tsErr)
	assert.Equal(t, int64(1), tsErr.BlobTimestamp)
}

func TestUnknownPlugin(t *testing.T) {
	_, err := database.New(&database.Config{BlobPlugin: "nope"})
	require.Error(t, err)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	db, err := database.New(&database.Config{PromRegistry: reg})
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	require.NoError(t, db.Execute(ctx, true, func(fundraiser.Host) error { return nil }))
	require.ErrorIs(
		t,
		db.Execute(ctx, true, func(fundraiser.Host) error { return errBoom }),
		errBoom,
	)
	count, err := promtestutil.GatherAndCount(
		reg,
		"crowdfund_database_commits_total",
		"crowdfund_database_rollbacks_total",
		"crowdfund_database_execute_duration_seconds",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
