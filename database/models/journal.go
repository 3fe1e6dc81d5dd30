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

package models

import (
	"fmt"
	"time"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/database/types"
	"github.com/blinklabs-io/crowdfund/token"
)

// JournalEntry is an append-only record of a token movement
type JournalEntry struct {
	CreatedAt time.Time
	Kind      string `gorm:"index;size:16"`
	Mint      []byte `gorm:"index;size:32"`
	From      []byte `gorm:"column:from_account;index;size:32"`
	To        []byte `gorm:"column:to_account;index;size:32"`
	Authority []byte `gorm:"size:32"`
	ID        uint   `gorm:"primarykey"`
	Amount    types.Uint64
}

func (JournalEntry) TableName() string {
	return "token_journal"
}

func JournalEntryFromToken(e *token.JournalEntry) JournalEntry {
	ret := JournalEntry{
		Kind:   string(e.Kind),
		Mint:   e.Mint.Bytes(),
		Amount: types.Uint64(e.Amount),
	}
	// Unused parties are left NULL
	if !e.From.IsZero() {
		ret.From = e.From.Bytes()
	}
	if !e.To.IsZero() {
		ret.To = e.To.Bytes()
	}
	if !e.Authority.IsZero() {
		ret.Authority = e.Authority.Bytes()
	}
	return ret
}

// Token converts the row back to its domain form. NULL parties become the
// zero identity
func (e *JournalEntry) Token() (*token.JournalEntry, error) {
	ret := &token.JournalEntry{
		Kind:   token.JournalKind(e.Kind),
		Amount: uint64(e.Amount),
	}
	fields := []struct {
		dst  *address.Identity
		src  []byte
		name string
	}{
		{&ret.Mint, e.Mint, "mint"},
		{&ret.From, e.From, "from"},
		{&ret.To, e.To, "to"},
		{&ret.Authority, e.Authority, "authority"},
	}
	for _, field := range fields {
		if len(field.src) == 0 {
			continue
		}
		id, err := address.NewIdentity(field.src)
		if err != nil {
			return nil, fmt.Errorf("journal %s: %w", field.name, err)
		}
		*field.dst = id
	}
	return ret, nil
}
