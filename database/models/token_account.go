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
	"fmt"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/database/types"
	"github.com/blinklabs-io/crowdfund/token"
)

var ErrTokenAccountNotFound = errors.New("token account not found")

// TokenAccount holds a balance of a single mint for an owner
type TokenAccount struct {
	Address []byte `gorm:"uniqueIndex;size:32"`
	Mint    []byte `gorm:"index;size:32"`
	Owner   []byte `gorm:"index;size:32"`
	ID      uint   `gorm:"primarykey"`
	Amount  types.Uint64
	Reserve types.Uint64
}

func (TokenAccount) TableName() string {
	return "token_account"
}

func TokenAccountFromToken(a *token.Account) TokenAccount {
	return TokenAccount{
		Address: a.Address.Bytes(),
		Mint:    a.Mint.Bytes(),
		Owner:   a.Owner.Bytes(),
		Amount:  types.Uint64(a.Amount),
		Reserve: types.Uint64(a.Reserve),
	}
}

// Token converts the row back to its domain form
func (a *TokenAccount) Token() (*token.Account, error) {
	addr, err := address.NewIdentity(a.Address)
	if err != nil {
		return nil, fmt.Errorf("account address: %w", err)
	}
	mint, err := address.NewIdentity(a.Mint)
	if err != nil {
		return nil, fmt.Errorf("account mint: %w", err)
	}
	owner, err := address.NewIdentity(a.Owner)
	if err != nil {
		return nil, fmt.Errorf("account owner: %w", err)
	}
	return &token.Account{
		Address: addr,
		Mint:    mint,
		Owner:   owner,
		Amount:  uint64(a.Amount),
		Reserve: uint64(a.Reserve),
	}, nil
}
