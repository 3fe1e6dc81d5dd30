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

// Package token implements the fungible token accounts that hold value for
// donors, fundraiser owners and custodial funding wallets.
package token

import (
	"errors"

	"github.com/blinklabs-io/crowdfund/address"
)

// DefaultAccountReserve is the reserve held by every token account and
// returned to the closing destination
const DefaultAccountReserve uint64 = 2_039_280

var (
	ErrMintNotFound      = errors.New("mint not found")
	ErrMintExists        = errors.New("mint already exists")
	ErrAccountNotFound   = errors.New("token account not found")
	ErrAccountExists     = errors.New("token account already exists")
	ErrMintMismatch      = errors.New("token account mint mismatch")
	ErrUnauthorized      = errors.New("signer is not the account authority")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrNonZeroBalance    = errors.New("cannot close account with non-zero balance")
	ErrOverflow          = errors.New("amount overflow")
	ErrSelfTransfer      = errors.New("source and destination are the same account")
)

// Mint describes a fungible token type
type Mint struct {
	Address   address.Identity
	Authority address.Identity
	Supply    uint64
	Decimals  uint8
}

// Account is a value-holding account bound to a single mint and owner
type Account struct {
	Address address.Identity
	Mint    address.Identity
	Owner   address.Identity
	Amount  uint64
	Reserve uint64
}

type JournalKind string

const (
	JournalKindInitialize JournalKind = "initialize"
	JournalKindMintTo     JournalKind = "mint_to"
	JournalKindTransfer   JournalKind = "transfer"
	JournalKindClose      JournalKind = "close"
)

// JournalEntry records a single value movement. For account closures the
// amount is the reserve returned to the destination
type JournalEntry struct {
	Kind      JournalKind
	Mint      address.Identity
	From      address.Identity
	To        address.Identity
	Authority address.Identity
	Amount    uint64
}

// Store persists mints, accounts and journal entries. Implementations are
// expected to scope all calls to a single transaction
type Store interface {
	GetMint(addr address.Identity) (*Mint, error)
	CreateMint(mint *Mint) error
	UpdateMint(mint *Mint) error
	GetAccount(addr address.Identity) (*Account, error)
	CreateAccount(account *Account) error
	UpdateAccount(account *Account) error
	DeleteAccount(addr address.Identity) error
	AppendJournal(entry *JournalEntry) error
}
