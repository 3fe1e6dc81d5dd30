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

// Package database coordinates the blob store holding fundraiser records
// with the metadata store holding the token ledger, so that a single
// operation commits or discards its effects in both as a unit.
package database

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blinklabs-io/crowdfund/database/plugin"
	"github.com/blinklabs-io/crowdfund/database/plugin/blob"
	// Register the bundled storage backends
	_ "github.com/blinklabs-io/crowdfund/database/plugin/blob/badger"
	"github.com/blinklabs-io/crowdfund/database/plugin/metadata"
	_ "github.com/blinklabs-io/crowdfund/database/plugin/metadata/postgres"
	_ "github.com/blinklabs-io/crowdfund/database/plugin/metadata/sqlite"
	"github.com/blinklabs-io/crowdfund/token"
)

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

// Config describes how to open a Database. An empty DataDir keeps both
// stores in memory
type Config struct {
	Logger         *slog.Logger
	PromRegistry   prometheus.Registerer
	DataDir        string
	BlobPlugin     string
	MetadataPlugin string
	// WalletReserve is the reserve locked in every new token account. Zero
	// selects token.DefaultAccountReserve
	WalletReserve uint64
}

type Database struct {
	logger        *slog.Logger
	blob          blob.BlobStore
	metadata      metadata.MetadataStore
	metrics       *databaseMetrics
	dataDir       string
	walletReserve uint64
	// execMutex serializes read-write operations against everything else
	execMutex sync.RWMutex
	closeOnce sync.Once
}

// Blob returns the underling blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// WalletReserve returns the reserve locked in new token accounts
func (d *Database) WalletReserve() uint64 {
	return d.walletReserve
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	d.closeOnce.Do(func() {
		if d.metadata != nil {
			err = errors.Join(err, d.metadata.Close())
		}
		if d.blob != nil {
			err = errors.Join(err, d.blob.Close())
		}
	})
	return err
}

// New opens the configured blob and metadata plugins
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	blobPlugin := cfg.BlobPlugin
	if blobPlugin == "" {
		blobPlugin = DefaultBlobPlugin
	}
	metadataPlugin := cfg.MetadataPlugin
	if metadataPlugin == "" {
		metadataPlugin = DefaultMetadataPlugin
	}
	walletReserve := cfg.WalletReserve
	if walletReserve == 0 {
		walletReserve = token.DefaultAccountReserve
	}
	// Point both plugins at our data dir. Backends without a data-dir option
	// ignore it
	if err := plugin.SetPluginOption(
		plugin.PluginTypeBlob,
		blobPlugin,
		"data-dir",
		cfg.DataDir,
	); err != nil {
		return nil, err
	}
	if err := plugin.SetPluginOption(
		plugin.PluginTypeMetadata,
		metadataPlugin,
		"data-dir",
		cfg.DataDir,
	); err != nil {
		return nil, err
	}
	blobDb, err := blob.New(blobPlugin)
	if err != nil {
		return nil, err
	}
	metadataDb, err := metadata.New(metadataPlugin)
	if err != nil {
		_ = blobDb.Close()
		return nil, err
	}
	db := &Database{
		logger:        logger.With("component", "database"),
		blob:          blobDb,
		metadata:      metadataDb,
		dataDir:       cfg.DataDir,
		walletReserve: walletReserve,
	}
	if cfg.PromRegistry != nil {
		db.metrics = &databaseMetrics{}
		db.metrics.init(cfg.PromRegistry)
	}
	if err := db.checkCommitTimestamp(); err != nil {
		// Database is available for recovery, so return it with error
		return db, fmt.Errorf("database consistency check: %w", err)
	}
	db.logger.Debug(
		"database opened",
		"data_dir", cfg.DataDir,
		"blob_plugin", blobPlugin,
		"metadata_plugin", metadataPlugin,
	)
	return db, nil
}
