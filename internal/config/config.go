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
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/database"
	"github.com/blinklabs-io/crowdfund/database/plugin"
	"github.com/blinklabs-io/crowdfund/token"
)

type ctxKey string

const configContextKey ctxKey = "crowdfund.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlobPlugin     = database.DefaultBlobPlugin
	DefaultMetadataPlugin = database.DefaultMetadataPlugin
	// DefaultProgramId is the identity fundraiser addresses are derived
	// from when none is configured
	DefaultProgramId = "crowdfund"
)

type tempConfig struct {
	Config   *Config         `yaml:"config,omitempty"`
	Database *databaseConfig `yaml:"database,omitempty"`
}

// databaseConfig holds per-plugin option sections, keyed by plugin name.
// A "plugin" key selects the plugin
type databaseConfig struct {
	Blob     map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

type Config struct {
	DatabasePath   string `yaml:"databasePath"   split_words:"true"`
	BlobPlugin     string `yaml:"blobPlugin"     envconfig:"CROWDFUND_DATABASE_BLOB_PLUGIN"`
	MetadataPlugin string `yaml:"metadataPlugin" envconfig:"CROWDFUND_DATABASE_METADATA_PLUGIN"`
	// ProgramId is the bech32 form of the program identity, or any other
	// string to derive one from
	ProgramId     string `yaml:"programId"     split_words:"true"`
	WalletReserve uint64 `yaml:"walletReserve" split_words:"true"`
	MetricsPort   uint   `yaml:"metricsPort"   split_words:"true"`
	Tracing       bool   `yaml:"tracing"`
	TracingStdout bool   `yaml:"tracingStdout" split_words:"true"`
}

// ProgramIdentity resolves ProgramId
func (c *Config) ProgramIdentity() (address.Identity, error) {
	if c.ProgramId == "" {
		return address.IdentityFromSeed(DefaultProgramId), nil
	}
	if id, err := address.ParseIdentity(c.ProgramId); err == nil {
		return id, nil
	}
	return address.IdentityFromSeed(c.ProgramId), nil
}

func defaultConfig() *Config {
	return &Config{
		DatabasePath:   ".crowdfund",
		BlobPlugin:     DefaultBlobPlugin,
		MetadataPlugin: DefaultMetadataPlugin,
		ProgramId:      DefaultProgramId,
		WalletReserve:  token.DefaultAccountReserve,
		MetricsPort:    12799,
	}
}

var globalConfig = defaultConfig()

func findConfigFile() string {
	// Check for config file in this path: ~/.crowdfund/crowdfund.yaml
	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, ".crowdfund", "crowdfund.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}
	systemPath := "/etc/crowdfund/crowdfund.yaml"
	if _, err := os.Stat(systemPath); err == nil {
		return systemPath
	}
	return ""
}

func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadConfigFile(configFile); err != nil {
			return nil, err
		}
	}
	// Process environment variables
	if err := envconfig.Process("crowdfund", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	// Process plugin environment variables
	if err := plugin.ProcessEnvVars(); err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}
	return globalConfig, nil
}

func loadConfigFile(configFile string) error {
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	// First unmarshal into temp config to handle plugin sections
	var tempCfg tempConfig
	if err := yaml.Unmarshal(buf, &tempCfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	if tempCfg.Config != nil {
		// Overlay config values onto existing defaults
		configBytes, err := yaml.Marshal(tempCfg.Config)
		if err != nil {
			return fmt.Errorf("error re-marshalling config: %w", err)
		}
		if err := yaml.Unmarshal(configBytes, globalConfig); err != nil {
			return fmt.Errorf("error parsing config section: %w", err)
		}
	} else if err := yaml.Unmarshal(buf, globalConfig); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	if tempCfg.Database == nil {
		return nil
	}
	pluginConfig := make(map[string]map[string]map[string]any)
	if tempCfg.Database.Blob != nil {
		name, sections := pluginSections("blob", tempCfg.Database.Blob)
		if name != "" {
			globalConfig.BlobPlugin = name
		}
		pluginConfig["blob"] = sections
	}
	if tempCfg.Database.Metadata != nil {
		name, sections := pluginSections("metadata", tempCfg.Database.Metadata)
		if name != "" {
			globalConfig.MetadataPlugin = name
		}
		pluginConfig["metadata"] = sections
	}
	if err := plugin.ProcessConfig(pluginConfig); err != nil {
		return fmt.Errorf("error processing plugin config: %w", err)
	}
	return nil
}

// pluginSections splits a database config section into the selected plugin
// name and per-plugin option maps
func pluginSections(
	pluginType string,
	section map[string]any,
) (string, map[string]map[string]any) {
	var name string
	ret := make(map[string]map[string]any)
	for k, v := range section {
		if k == "plugin" {
			if tmpName, ok := v.(string); ok {
				name = tmpName
			}
			continue
		}
		switch val := v.(type) {
		case map[string]any:
			ret[k] = val
		case map[any]any:
			// Convert map[any]any to map[string]any
			stringAnyMap := make(map[string]any)
			for vk, vv := range val {
				if keyStr, ok := vk.(string); ok {
					stringAnyMap[keyStr] = vv
				}
			}
			ret[k] = stringAnyMap
		default:
			fmt.Fprintf(
				os.Stderr,
				"warning: skipping %s config entry %q: expected map, got %T\n",
				pluginType,
				k,
				v,
			)
		}
	}
	return name, ret
}

func GetConfig() *Config {
	return globalConfig
}
