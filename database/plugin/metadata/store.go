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

package metadata

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/blinklabs-io/crowdfund/database/models"
	"github.com/blinklabs-io/crowdfund/database/plugin"
	"github.com/blinklabs-io/crowdfund/database/types"
)

type MetadataStore interface {
	plugin.Plugin

	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Token ledger
	GetMint(
		[]byte, // address
		types.Txn,
	) (*models.Mint, error)
	SetMint(*models.Mint, types.Txn) error
	GetTokenAccount(
		[]byte, // address
		types.Txn,
	) (*models.TokenAccount, error)
	GetTokenAccountsByOwner(
		[]byte, // owner
		types.Txn,
	) ([]models.TokenAccount, error)
	SetTokenAccount(*models.TokenAccount, types.Txn) error
	DeleteTokenAccount(
		[]byte, // address
		types.Txn,
	) error
	AddJournalEntry(*models.JournalEntry, types.Txn) error
	GetJournalEntries(
		[]byte, // account
		int, // limit
		types.Txn,
	) ([]models.JournalEntry, error)
}

// New returns the started metadata plugin selected by name
func New(pluginName string) (MetadataStore, error) {
	p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName)
	if err != nil {
		return nil, err
	}
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		_ = p.Stop()
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}
	return metadataStore, nil
}
