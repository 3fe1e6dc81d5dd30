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
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota + 1
	PluginOptionTypeBool
	PluginOptionTypeInt
	PluginOptionTypeUint
)

// PluginOption is a single tunable of a plugin. Dest points at the variable
// the plugin reads when it is instantiated
type PluginOption struct {
	DefaultValue any
	Dest         any
	Name         string
	Description  string
	Type         PluginOptionType
}

var errNilDest = errors.New("nil destination")

// AddToFlagSet registers the option as a flag on fs
func (p *PluginOption) AddToFlagSet(
	fs *pflag.FlagSet,
	pluginType string,
	pluginName string,
) error {
	flagName := fmt.Sprintf("%s-%s-%s", pluginType, pluginName, p.Name)
	switch p.Type {
	case PluginOptionTypeString:
		dest, ok := p.Dest.(*string)
		if !ok || dest == nil {
			return fmt.Errorf("option %s: %w", p.Name, errNilDest)
		}
		def, _ := p.DefaultValue.(string)
		fs.StringVar(dest, flagName, def, p.Description)
	case PluginOptionTypeBool:
		dest, ok := p.Dest.(*bool)
		if !ok || dest == nil {
			return fmt.Errorf("option %s: %w", p.Name, errNilDest)
		}
		def, _ := p.DefaultValue.(bool)
		fs.BoolVar(dest, flagName, def, p.Description)
	case PluginOptionTypeInt:
		dest, ok := p.Dest.(*int)
		if !ok || dest == nil {
			return fmt.Errorf("option %s: %w", p.Name, errNilDest)
		}
		def, _ := p.DefaultValue.(int)
		fs.IntVar(dest, flagName, def, p.Description)
	case PluginOptionTypeUint:
		dest, ok := p.Dest.(*uint64)
		if !ok || dest == nil {
			return fmt.Errorf("option %s: %w", p.Name, errNilDest)
		}
		def, _ := p.DefaultValue.(uint64)
		fs.Uint64Var(dest, flagName, def, p.Description)
	default:
		return fmt.Errorf("unknown plugin option type %d for option %s", p.Type, p.Name)
	}
	return nil
}

// setFromAny assigns a value decoded from a config file
func (p *PluginOption) setFromAny(value any) error {
	switch p.Type {
	case PluginOptionTypeString:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid type for option %s: expected string", p.Name)
		}
		return assign(p.Dest, v, p.Name)
	case PluginOptionTypeBool:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("invalid type for option %s: expected bool", p.Name)
		}
		return assign(p.Dest, v, p.Name)
	case PluginOptionTypeInt:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("invalid type for option %s: expected int", p.Name)
		}
		return assign(p.Dest, v, p.Name)
	case PluginOptionTypeUint:
		switch tv := value.(type) {
		case uint64:
			return assign(p.Dest, tv, p.Name)
		case int:
			if tv < 0 {
				return fmt.Errorf("invalid value for option %s: negative int", p.Name)
			}
			return assign(p.Dest, uint64(tv), p.Name)
		default:
			return fmt.Errorf("invalid type for option %s: expected uint64 or int", p.Name)
		}
	default:
		return fmt.Errorf("unknown plugin option type %d for option %s", p.Type, p.Name)
	}
}

// setFromString assigns a value taken from an environment variable
func (p *PluginOption) setFromString(value string) error {
	switch p.Type {
	case PluginOptionTypeString:
		return assign(p.Dest, value, p.Name)
	case PluginOptionTypeBool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		return assign(p.Dest, v, p.Name)
	case PluginOptionTypeInt:
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		return assign(p.Dest, v, p.Name)
	case PluginOptionTypeUint:
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		return assign(p.Dest, v, p.Name)
	default:
		return fmt.Errorf("unknown plugin option type %d for option %s", p.Type, p.Name)
	}
}

func assign[T any](dest any, value T, optionName string) error {
	if dest == nil {
		return fmt.Errorf("option %s: %w", optionName, errNilDest)
	}
	ptr, ok := dest.(*T)
	if !ok {
		return fmt.Errorf(
			"invalid destination type for option %s: expected %T",
			optionName,
			ptr,
		)
	}
	if ptr == nil {
		return fmt.Errorf("option %s: %w", optionName, errNilDest)
	}
	*ptr = value
	return nil
}
