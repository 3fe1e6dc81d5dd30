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
	"log/slog"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// ConnConfig holds the individual connection settings used when no DSN is
// given
type ConnConfig struct {
	Host     string
	User     string
	Password string
	Database string
	SSLMode  string
	TimeZone string
	Port     uint
}

// DSN renders the settings in libpq key/value form
func (c ConnConfig) DSN() string {
	parts := []string{
		"host=" + c.Host,
		"user=" + c.User,
		"password=" + c.Password,
		"dbname=" + c.Database,
		"port=" + strconv.FormatUint(uint64(c.Port), 10),
		"sslmode=" + c.SSLMode,
	}
	if c.TimeZone != "" {
		parts = append(parts, "TimeZone="+c.TimeZone)
	}
	return strings.Join(parts, " ")
}

type PostgresOptionFunc func(*MetadataStorePostgres)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.logger = logger
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.promRegistry = registry
	}
}

// WithConnConfig specifies the individual connection settings
func WithConnConfig(cfg ConnConfig) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.conn = cfg
	}
}

// WithDSN specifies a full connection string. It takes precedence over
// WithConnConfig
func WithDSN(dsn string) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.dsn = dsn
	}
}
