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
	"errors"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/database/types"
	"github.com/blinklabs-io/crowdfund/token"
)

var ErrMintNotFound = errors.New("mint not found")

// Mint is a token type and its issuing authority
type Mint struct {
	Address   []byte `gorm:"uniqueIndex;size:32"`
	Authority []byte `gorm:"index;size:32"`
	ID        uint   `gorm:"primarykey"`
	Supply    types.Uint64
	Decimals  uint8
}

func (Mint) TableName() string {
	return "mint"
}

func MintFromToken(m *token.Mint) Mint {
	return Mint{
		Address:   m.Address.Bytes(),
		Authority: m.Authority.Bytes(),
		Supply:    types.Uint64(m.Supply),
		Decimals:  m.Decimals,
	}
}

// Token converts the row back to its domain form
func (m *Mint) Token() (*token.Mint, error) {
	addr, err := address.NewIdentity(m.Address)
	if err != nil {
		return nil, err
	}
	authority, err := address.NewIdentity(m.Authority)
	if err != nil {
		return nil, err
	}
	return &token.Mint{
		Address:   addr,
		Authority: authority,
		Supply:    uint64(m.Supply),
		Decimals:  m.Decimals,
	}, nil
}
