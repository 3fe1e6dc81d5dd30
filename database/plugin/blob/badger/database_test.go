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

package badger_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/crowdfund/database/plugin"
	"github.com/blinklabs-io/crowdfund/database/plugin/blob/badger"
	"github.com/blinklabs-io/crowdfund/database/types"
)

func newStore(t *testing.T, opts ...badger.BlobStoreBadgerOptionFunc) *badger.BlobStoreBadger {
	t.Helper()
	store, err := badger.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestSetGetDelete(t *testing.T) {
	store := newStore(t)
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("k1"), []byte("v1")))
	val, err := store.Get(txn, []byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)
	require.NoError(t, txn.Commit())

	txn = store.NewTransaction(true)
	require.NoError(t, store.Delete(txn, []byte("k1")))
	require.NoError(t, txn.Commit())

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	_, err = store.Get(txn, []byte("k1"))
	require.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}

func TestRollbackDiscardsWrites(t *testing.T) {
	store := newStore(t)
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("k"), []byte("v")))
	require.NoError(t, txn.Rollback())
	// Finished transactions can't be reused
	_, err := store.Get(txn, []byte("k"))
	require.ErrorIs(t, err, types.ErrTxnFinished)

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	_, err = store.Get(txn, []byte("k"))
	require.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}

func TestReadOnlyTransactionRejectsWrites(t *testing.T) {
	store := newStore(t)
	txn := store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	require.ErrorIs(t, store.Set(txn, []byte("k"), []byte("v")), types.ErrReadOnlyTxn)
	require.ErrorIs(t, store.Delete(txn, []byte("k")), types.ErrReadOnlyTxn)
}

func TestForeignTransaction(t *testing.T) {
	store1 := newStore(t)
	store2 := newStore(t)
	txn := store1.NewTransaction(true)
	defer txn.Rollback() //nolint:errcheck
	require.Error(t, store2.Set(txn, []byte("k"), []byte("v")))
	require.ErrorIs(t, store1.Set(nil, []byte("k"), []byte("v")), types.ErrNilTxn)
}

func TestIteratePrefix(t *testing.T) {
	store := newStore(t)
	txn := store.NewTransaction(true)
	for _, k := range []string{"fr2", "fr1", "xx1", "fr3"} {
		require.NoError(t, store.Set(txn, []byte(k), []byte("val-"+k)))
	}
	require.NoError(t, txn.Commit())

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	var keys []string
	err := store.Iterate(txn, []byte("fr"), func(key, val []byte) error {
		keys = append(keys, string(key))
		assert.Equal(t, "val-"+string(key), string(val))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fr1", "fr2", "fr3"}, keys)
}

func TestCommitTimestamp(t *testing.T) {
	store := newStore(t)
	ts, err := store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)

	txn := store.NewTransaction(true)
	require.NoError(t, store.SetCommitTimestamp(1700000000123, txn))
	require.NoError(t, txn.Commit())

	ts, err = store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000123), ts)
}

func TestPersistence(t *testing.T) {
	dataDir := t.TempDir()
	store, err := badger.New(badger.WithDataDir(dataDir), badger.WithGc(true))
	require.NoError(t, err)
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("k"), []byte("v")))
	require.NoError(t, txn.Commit())
	require.NoError(t, store.Close())
	// Closing twice is harmless
	require.NoError(t, store.Close())

	store = newStore(t, badger.WithDataDir(dataDir))
	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	val, err := store.Get(txn, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	newStore(t, badger.WithPromRegistry(reg))
	count, err := promtestutil.GatherAndCount(
		reg,
		"crowdfund_blob_lsm_size_bytes",
		"crowdfund_blob_vlog_size_bytes",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPersistenceWithoutSyncWrites(t *testing.T) {
	dataDir := t.TempDir()
	store, err := badger.New(
		badger.WithDataDir(dataDir),
		badger.WithGc(false),
		badger.WithSyncWrites(false),
	)
	require.NoError(t, err)
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("fr1"), []byte("record")))
	require.NoError(t, txn.Commit())
	// A clean close flushes everything even when commits are not synced
	require.NoError(t, store.Close())

	store = newStore(t, badger.WithDataDir(dataDir))
	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	val, err := store.Get(txn, []byte("fr1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("record"), val)
}

func TestPluginOptions(t *testing.T) {
	var entry *plugin.PluginEntry
	for _, e := range plugin.GetPlugins(plugin.PluginTypeBlob) {
		if e.Name == "badger" {
			entry = &e
			break
		}
	}
	require.NotNil(t, entry, "badger plugin is registered")
	defaults := make(map[string]any)
	for _, opt := range entry.Options {
		defaults[opt.Name] = opt.DefaultValue
	}
	assert.Equal(t, true, defaults["sync-writes"])
	assert.Equal(t, true, defaults["gc"])
	assert.Equal(t, uint64(badger.DefaultBlockCacheSize), defaults["block-cache-size"])
	assert.Equal(t, badger.DefaultDataDir, defaults["data-dir"])
}
