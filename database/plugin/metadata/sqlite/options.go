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

package sqlite

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultJournalMode = "wal"
	DefaultBusyTimeout = 5 * time.Second
)

// journalModes are the SQLite journal modes accepted for on-disk databases.
// OFF is left out since a crash could then corrupt the token ledger
var journalModes = []string{"delete", "truncate", "persist", "memory", "wal"}

type SqliteOptionFunc func(*MetadataStoreSqlite)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) SqliteOptionFunc {
	return func(m *MetadataStoreSqlite) {
		m.logger = logger
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) SqliteOptionFunc {
	return func(m *MetadataStoreSqlite) {
		m.promRegistry = registry
	}
}

// WithDataDir specifies the directory holding metadata.sqlite. An empty
// value keeps the database in memory
func WithDataDir(dataDir string) SqliteOptionFunc {
	return func(m *MetadataStoreSqlite) {
		m.dataDir = dataDir
	}
}

// WithJournalMode specifies the journal mode of an on-disk database
func WithJournalMode(mode string) SqliteOptionFunc {
	return func(m *MetadataStoreSqlite) {
		m.journalMode = strings.ToLower(mode)
	}
}

// WithBusyTimeout specifies how long a write waits on a locked database
// before failing
func WithBusyTimeout(timeout time.Duration) SqliteOptionFunc {
	return func(m *MetadataStoreSqlite) {
		m.busyTimeout = timeout
	}
}

// fileDsn builds the connection string for the database file at path
func (m *MetadataStoreSqlite) fileDsn(path string) (string, error) {
	if !slices.Contains(journalModes, m.journalMode) {
		return "", fmt.Errorf(
			"unsupported journal mode %q, expected one of %s",
			m.journalMode,
			strings.Join(journalModes, ", "),
		)
	}
	if m.busyTimeout < 0 {
		return "", fmt.Errorf("negative busy timeout: %s", m.busyTimeout)
	}
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(%s)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		path,
		strings.ToUpper(m.journalMode),
		m.busyTimeout.Milliseconds(),
	), nil
}
