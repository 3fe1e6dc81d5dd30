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

package plugin

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

type PluginType int

const (
	PluginTypeBlob PluginType = iota + 1
	PluginTypeMetadata
)

func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return fmt.Sprintf("unknown(%d)", int(pluginType))
	}
}

// PluginEntry describes a storage backend that can be selected by name
type PluginEntry struct {
	NewFromOptionsFunc func() Plugin
	Name               string
	Description        string
	Options            []PluginOption
	Type               PluginType
}

var pluginEntries []PluginEntry

// Register adds a plugin to the registry. Registering the same type and name
// again replaces the earlier entry
func Register(pluginEntry PluginEntry) {
	for i, entry := range pluginEntries {
		if entry.Type == pluginEntry.Type && entry.Name == pluginEntry.Name {
			pluginEntries[i] = pluginEntry
			return
		}
	}
	pluginEntries = append(pluginEntries, pluginEntry)
}

// GetPlugins returns the registered entries of the given type
func GetPlugins(pluginType PluginType) []PluginEntry {
	var ret []PluginEntry
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}

// GetPlugin builds a new instance of the named plugin from its current
// options. It returns nil if no such plugin is registered
func GetPlugin(pluginType PluginType, name string) Plugin {
	for _, entry := range pluginEntries {
		if entry.Type != pluginType || entry.Name != name {
			continue
		}
		if entry.NewFromOptionsFunc == nil {
			return nil
		}
		return entry.NewFromOptionsFunc()
	}
	return nil
}

// PopulateCmdlineOptions adds a flag for every option of every registered
// plugin, named <type>-<plugin>-<option>
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			if err := opt.AddToFlagSet(
				fs,
				PluginTypeName(entry.Type),
				entry.Name,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProcessEnvVars applies option values from environment variables named
// CROWDFUND_DATABASE_<TYPE>_<PLUGIN>_<OPTION>
func ProcessEnvVars() error {
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			envName := envVarName(PluginTypeName(entry.Type), entry.Name, opt.Name)
			val, ok := os.LookupEnv(envName)
			if !ok {
				continue
			}
			if err := opt.setFromString(val); err != nil {
				return fmt.Errorf("environment variable %s: %w", envName, err)
			}
		}
	}
	return nil
}

// ProcessConfig applies option values from a config file section shaped as
// type -> plugin -> option -> value
func ProcessConfig(cfg map[string]map[string]map[string]any) error {
	for _, entry := range pluginEntries {
		pluginCfg, ok := cfg[PluginTypeName(entry.Type)][entry.Name]
		if !ok {
			continue
		}
		for _, opt := range entry.Options {
			val, ok := pluginCfg[opt.Name]
			if !ok {
				continue
			}
			if err := opt.setFromAny(val); err != nil {
				return fmt.Errorf(
					"config %s.%s.%s: %w",
					PluginTypeName(entry.Type),
					entry.Name,
					opt.Name,
					err,
				)
			}
		}
	}
	return nil
}

func envVarName(pluginType, pluginName, optionName string) string {
	name := strings.Join(
		[]string{"CROWDFUND_DATABASE", pluginType, pluginName, optionName},
		"_",
	)
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
