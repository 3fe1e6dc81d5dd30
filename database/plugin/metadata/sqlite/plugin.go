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
	"sync"
	"time"

	"github.com/blinklabs-io/crowdfund/database/plugin"
)

const DefaultDataDir = ".crowdfund"

// flagValues holds the values of the registered plugin options until the
// plugin is instantiated
type flagValues struct {
	sync.RWMutex
	dataDir       string
	journalMode   string
	busyTimeoutMs uint64
}

var flags = &flagValues{
	dataDir:       DefaultDataDir,
	journalMode:   DefaultJournalMode,
	busyTimeoutMs: uint64(DefaultBusyTimeout.Milliseconds()),
}

func init() {
	plugin.Register(
		plugin.PluginEntry{
			Type:               plugin.PluginTypeMetadata,
			Name:               "sqlite",
			Description:        "SQLite store for the token ledger",
			NewFromOptionsFunc: NewFromCmdlineOptions,
			Options: []plugin.PluginOption{
				{
					Name:         "data-dir",
					Type:         plugin.PluginOptionTypeString,
					Description:  "directory holding metadata.sqlite, empty for in-memory",
					DefaultValue: flags.dataDir,
					Dest:         &flags.dataDir,
				},
				{
					Name:         "journal-mode",
					Type:         plugin.PluginOptionTypeString,
					Description:  "journal mode of the database file",
					DefaultValue: flags.journalMode,
					Dest:         &flags.journalMode,
				},
				{
					Name:         "busy-timeout",
					Type:         plugin.PluginOptionTypeUint,
					Description:  "milliseconds a write waits on a locked database",
					DefaultValue: flags.busyTimeoutMs,
					Dest:         &flags.busyTimeoutMs,
				},
			},
		},
	)
}

// NewFromCmdlineOptions builds the store from the registered option values.
// Open errors are deferred to Start
func NewFromCmdlineOptions() plugin.Plugin {
	flags.RLock()
	opts := []SqliteOptionFunc{
		WithDataDir(flags.dataDir),
		WithJournalMode(flags.journalMode),
		WithBusyTimeout(
			time.Duration(flags.busyTimeoutMs) * time.Millisecond, //nolint:gosec // operator supplied
		),
	}
	flags.RUnlock()
	p, err := NewWithOptions(opts...)
	if err != nil {
		return plugin.NewErrorPlugin(err)
	}
	return p
}
