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

package postgres

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/blinklabs-io/crowdfund/database/plugin/metadata/internal/gormstore"
)

// MetadataStorePostgres stores metadata in Postgres. The connection is made
// by Start
type MetadataStorePostgres struct {
	*gormstore.Store
	promRegistry prometheus.Registerer
	logger       *slog.Logger
	dsn          string
	conn         ConnConfig
}

// NewWithOptions creates an unconnected store
func NewWithOptions(opts ...PostgresOptionFunc) (*MetadataStorePostgres, error) {
	d := &MetadataStorePostgres{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if strings.TrimSpace(d.dsn) == "" && d.conn.Host == "" {
		return nil, errors.New("postgres: either a DSN or a host is required")
	}
	return d, nil
}

// Start implements the plugin.Plugin interface
func (d *MetadataStorePostgres) Start() error {
	dsn := strings.TrimSpace(d.dsn)
	if dsn == "" {
		dsn = d.conn.DSN()
	}
	metadataDb, err := gorm.Open(
		postgres.Open(dsn),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
		},
	)
	if err != nil {
		return err
	}
	d.logger.Info(
		"connected to postgres metadata store",
		"host", d.conn.Host,
		"port", d.conn.Port,
		"database", d.conn.Database,
	)
	sqlDB, err := metadataDb.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetMaxOpenConns(16)
	sqlDB.SetConnMaxLifetime(time.Hour)
	store, err := gormstore.New(metadataDb, d.logger)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	d.Store = store
	if d.promRegistry != nil {
		promauto.With(d.promRegistry).NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "crowdfund_metadata_open_connections",
				Help: "open connections to the postgres metadata database",
			},
			func() float64 {
				return float64(sqlDB.Stats().OpenConnections)
			},
		)
	}
	return nil
}

// Stop implements the plugin.Plugin interface
func (d *MetadataStorePostgres) Stop() error {
	return d.Close()
}

// Close closes the connection pool if Start succeeded
func (d *MetadataStorePostgres) Close() error {
	if d.Store == nil {
		return nil
	}
	return d.Store.Close()
}
