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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/crowdfund/database/plugin"
)

func TestConnConfigDSN(t *testing.T) {
	cfg := ConnConfig{
		Host:     "db.example",
		Port:     6543,
		User:     "cf",
		Password: "secret",
		Database: "crowdfund",
		SSLMode:  "require",
		TimeZone: "UTC",
	}
	assert.Equal(
		t,
		"host=db.example user=cf password=secret dbname=crowdfund port=6543 sslmode=require TimeZone=UTC",
		cfg.DSN(),
	)
	cfg.TimeZone = ""
	assert.NotContains(t, cfg.DSN(), "TimeZone")
}

func TestNewWithOptions(t *testing.T) {
	_, err := NewWithOptions()
	require.Error(t, err, "a DSN or host must be required")

	m, err := NewWithOptions(WithDSN("postgres://cf@localhost/crowdfund"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://cf@localhost/crowdfund", m.dsn)
	assert.NotNil(t, m.logger)
	// Not connected until started
	require.NoError(t, m.Close())
}

func TestPluginRegistered(t *testing.T) {
	var found bool
	for _, entry := range plugin.GetPlugins(plugin.PluginTypeMetadata) {
		if entry.Name == "postgres" {
			found = true
			assert.Len(t, entry.Options, 8)
		}
	}
	assert.True(t, found)
	p := plugin.GetPlugin(plugin.PluginTypeMetadata, "postgres")
	require.NotNil(t, p)
	_, ok := p.(*MetadataStorePostgres)
	assert.True(t, ok, "default options should build an unconnected store, got %T", p)
}
