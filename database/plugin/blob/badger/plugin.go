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

package badger

import (
	"sync"

	"github.com/blinklabs-io/crowdfund/database/plugin"
)

// Records are small and fixed-size, so the caches stay modest
const (
	DefaultBlockCacheSize = 64 << 20
	DefaultIndexCacheSize = 32 << 20
	DefaultDataDir        = ".crowdfund"
)

// flagValues holds the values of the registered plugin options until the
// plugin is instantiated
type flagValues struct {
	sync.RWMutex
	dataDir        string
	blockCacheSize uint64
	indexCacheSize uint64
	gcEnabled      bool
	syncWrites     bool
}

var flags = &flagValues{
	dataDir:        DefaultDataDir,
	blockCacheSize: DefaultBlockCacheSize,
	indexCacheSize: DefaultIndexCacheSize,
	gcEnabled:      true,
	syncWrites:     true,
}

func init() {
	plugin.Register(
		plugin.PluginEntry{
			Type:               plugin.PluginTypeBlob,
			Name:               "badger",
			Description:        "BadgerDB key-value store for fundraiser records",
			NewFromOptionsFunc: NewFromCmdlineOptions,
			Options:            flags.pluginOptions(),
		},
	)
}

func (f *flagValues) pluginOptions() []plugin.PluginOption {
	return []plugin.PluginOption{
		{
			Name:         "data-dir",
			Type:         plugin.PluginOptionTypeString,
			Description:  "directory holding the blob store, empty for in-memory",
			DefaultValue: f.dataDir,
			Dest:         &f.dataDir,
		},
		{
			Name:         "block-cache-size",
			Type:         plugin.PluginOptionTypeUint,
			Description:  "block cache size in bytes",
			DefaultValue: f.blockCacheSize,
			Dest:         &f.blockCacheSize,
		},
		{
			Name:         "index-cache-size",
			Type:         plugin.PluginOptionTypeUint,
			Description:  "index cache size in bytes",
			DefaultValue: f.indexCacheSize,
			Dest:         &f.indexCacheSize,
		},
		{
			Name:         "gc",
			Type:         plugin.PluginOptionTypeBool,
			Description:  "periodically reclaim value log space",
			DefaultValue: f.gcEnabled,
			Dest:         &f.gcEnabled,
		},
		{
			Name:         "sync-writes",
			Type:         plugin.PluginOptionTypeBool,
			Description:  "sync every commit to disk before acknowledging it",
			DefaultValue: f.syncWrites,
			Dest:         &f.syncWrites,
		},
	}
}

// NewFromCmdlineOptions builds the store from the registered option values.
// Open errors are deferred to Start
func NewFromCmdlineOptions() plugin.Plugin {
	flags.RLock()
	opts := []BlobStoreBadgerOptionFunc{
		WithDataDir(flags.dataDir),
		WithBlockCacheSize(flags.blockCacheSize),
		WithIndexCacheSize(flags.indexCacheSize),
		WithGc(flags.gcEnabled),
		WithSyncWrites(flags.syncWrites),
	}
	flags.RUnlock()
	p, err := New(opts...)
	if err != nil {
		return plugin.NewErrorPlugin(err)
	}
	return p
}
