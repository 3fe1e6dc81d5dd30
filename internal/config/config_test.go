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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/token"
)

func resetGlobalConfig(t *testing.T) {
	t.Helper()
	globalConfig = defaultConfig()
	// Keep a config file in the real home directory out of the test
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "crowdfund.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o600))
	return tmpFile
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	resetGlobalConfig(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, token.DefaultAccountReserve, cfg.WalletReserve)
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig(t)
	tmpFile := writeConfig(t, `
databasePath: "/var/lib/crowdfund"
blobPlugin: "badger"
metadataPlugin: "sqlite"
programId: "testnet"
walletReserve: 1000
metricsPort: 8088
tracing: true
tracingStdout: true
`)
	expected := &Config{
		DatabasePath:   "/var/lib/crowdfund",
		BlobPlugin:     "badger",
		MetadataPlugin: "sqlite",
		ProgramId:      "testnet",
		WalletReserve:  1000,
		MetricsPort:    8088,
		Tracing:        true,
		TracingStdout:  true,
	}
	actual, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func TestLoad_ConfigSection(t *testing.T) {
	resetGlobalConfig(t)
	tmpFile := writeConfig(t, `
config:
  databasePath: "/data"
database:
  metadata:
    plugin: postgres
    postgres:
      host: db.example
      port: 6543
`)
	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.DatabasePath)
	assert.Equal(t, "postgres", cfg.MetadataPlugin)
	// Unset keys keep their defaults
	assert.Equal(t, DefaultBlobPlugin, cfg.BlobPlugin)
	assert.Equal(t, uint(12799), cfg.MetricsPort)
}

func TestLoad_InvalidPluginOption(t *testing.T) {
	resetGlobalConfig(t)
	tmpFile := writeConfig(t, `
database:
  blob:
    badger:
      block-cache-size: -5
`)
	_, err := LoadConfig(tmpFile)
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	resetGlobalConfig(t)
	tmpFile := writeConfig(t, `
databasePath: "/from/file"
walletReserve: 10
`)
	t.Setenv("CROWDFUND_DATABASE_PATH", "/from/env")
	t.Setenv("CROWDFUND_DATABASE_METADATA_PLUGIN", "postgres")
	t.Setenv("CROWDFUND_TRACING", "true")
	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DatabasePath)
	assert.Equal(t, "postgres", cfg.MetadataPlugin)
	assert.Equal(t, uint64(10), cfg.WalletReserve)
	assert.True(t, cfg.Tracing)
}

func TestLoad_MissingFile(t *testing.T) {
	resetGlobalConfig(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestProgramIdentity(t *testing.T) {
	cfg := defaultConfig()
	id, err := cfg.ProgramIdentity()
	require.NoError(t, err)
	assert.Equal(t, address.IdentityFromSeed(DefaultProgramId), id)

	explicit := address.IdentityFromSeed("explicit")
	cfg.ProgramId = explicit.String()
	id, err = cfg.ProgramIdentity()
	require.NoError(t, err)
	assert.Equal(t, explicit, id)

	cfg.ProgramId = ""
	id, err = cfg.ProgramIdentity()
	require.NoError(t, err)
	assert.Equal(t, address.IdentityFromSeed(DefaultProgramId), id)
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	cfg := defaultConfig()
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
