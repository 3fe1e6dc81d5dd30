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

package token_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/token"
)

// memStore is a map-backed token.Store that copies values in and out
type memStore struct {
	mints    map[address.Identity]token.Mint
	accounts map[address.Identity]token.Account
	journal  []token.JournalEntry
}

func newMemStore() *memStore {
	return &memStore{
		mints:    make(map[address.Identity]token.Mint),
		accounts: make(map[address.Identity]token.Account),
	}
}

func (s *memStore) GetMint(addr address.Identity) (*token.Mint, error) {
	m, ok := s.mints[addr]
	if !ok {
		return nil, token.ErrMintNotFound
	}
	return &m, nil
}

func (s *memStore) CreateMint(mint *token.Mint) error {
	s.mints[mint.Address] = *mint
	return nil
}

func (s *memStore) UpdateMint(mint *token.Mint) error {
	s.mints[mint.Address] = *mint
	return nil
}

func (s *memStore) GetAccount(addr address.Identity) (*token.Account, error) {
	a, ok := s.accounts[addr]
	if !ok {
		return nil, token.ErrAccountNotFound
	}
	return &a, nil
}

func (s *memStore) CreateAccount(account *token.Account) error {
	s.accounts[account.Address] = *account
	return nil
}

func (s *memStore) UpdateAccount(account *token.Account) error {
	s.accounts[account.Address] = *account
	return nil
}

func (s *memStore) DeleteAccount(addr address.Identity) error {
	delete(s.accounts, addr)
	return nil
}

func (s *memStore) AppendJournal(entry *token.JournalEntry) error {
	s.journal = append(s.journal, *entry)
	return nil
}

func id(b byte) address.Identity {
	var ret address.Identity
	ret[0] = b
	ret[31] = b
	return ret
}

var (
	mintA     = id(0x10)
	mintB     = id(0x11)
	authority = id(0x20)
	alice     = id(0x30)
	bob       = id(0x31)
	aliceA    = id(0x40)
	bobA      = id(0x41)
	bobB      = id(0x42)
)

func setup(t *testing.T) (*token.Program, *memStore) {
	t.Helper()
	store := newMemStore()
	p := token.NewProgram(store, token.DefaultAccountReserve)
	_, err := p.CreateMint(mintA, authority, 6)
	require.NoError(t, err)
	_, err = p.CreateMint(mintB, authority, 6)
	require.NoError(t, err)
	_, err = p.InitializeAccount(aliceA, mintA, alice)
	require.NoError(t, err)
	_, err = p.InitializeAccount(bobA, mintA, bob)
	require.NoError(t, err)
	_, err = p.InitializeAccount(bobB, mintB, bob)
	require.NoError(t, err)
	require.NoError(t, p.MintTo(mintA, aliceA, authority, 1000))
	return p, store
}

func TestCreateMintDuplicate(t *testing.T) {
	p, _ := setup(t)
	_, err := p.CreateMint(mintA, authority, 0)
	require.ErrorIs(t, err, token.ErrMintExists)
}

func TestInitializeAccount(t *testing.T) {
	p, _ := setup(t)
	acct, err := p.Account(bobA)
	require.NoError(t, err)
	assert.Equal(t, bob, acct.Owner)
	assert.Equal(t, mintA, acct.Mint)
	assert.Equal(t, uint64(0), acct.Amount)
	assert.Equal(t, token.DefaultAccountReserve, acct.Reserve)

	_, err = p.InitializeAccount(bobA, mintA, bob)
	require.ErrorIs(t, err, token.ErrAccountExists)
	_, err = p.InitializeAccount(id(0x50), id(0x99), bob)
	require.ErrorIs(t, err, token.ErrMintNotFound)
}

func TestMintTo(t *testing.T) {
	p, _ := setup(t)
	require.ErrorIs(
		t,
		p.MintTo(mintA, aliceA, alice, 10),
		token.ErrUnauthorized,
	)
	require.ErrorIs(
		t,
		p.MintTo(mintB, aliceA, authority, 10),
		token.ErrMintMismatch,
	)
	require.ErrorIs(
		t,
		p.MintTo(mintA, aliceA, authority, math.MaxUint64),
		token.ErrOverflow,
	)
	mint, err := p.Mint(mintA)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), mint.Supply)
}

func TestTransfer(t *testing.T) {
	p, store := setup(t)
	require.NoError(t, p.Transfer(aliceA, bobA, alice, 400))
	src, err := p.Account(aliceA)
	require.NoError(t, err)
	dst, err := p.Account(bobA)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), src.Amount)
	assert.Equal(t, uint64(400), dst.Amount)
	last := store.journal[len(store.journal)-1]
	assert.Equal(t, token.JournalKindTransfer, last.Kind)
	assert.Equal(t, uint64(400), last.Amount)
}

func TestTransferFailuresLeaveBalances(t *testing.T) {
	testDefs := []struct {
		name      string
		from      address.Identity
		to        address.Identity
		authority address.Identity
		amount    uint64
		err       error
	}{
		{"zero amount", aliceA, bobA, alice, 0, token.ErrInvalidAmount},
		{"self", aliceA, aliceA, alice, 1, token.ErrSelfTransfer},
		{"wrong authority", aliceA, bobA, bob, 1, token.ErrUnauthorized},
		{"mint mismatch", aliceA, bobB, alice, 1, token.ErrMintMismatch},
		{"insufficient", aliceA, bobA, alice, 1001, token.ErrInsufficientFunds},
		{"missing source", id(0x77), bobA, alice, 1, token.ErrAccountNotFound},
		{"missing destination", aliceA, id(0x77), alice, 1, token.ErrAccountNotFound},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			p, _ := setup(t)
			err := p.Transfer(
				testDef.from,
				testDef.to,
				testDef.authority,
				testDef.amount,
			)
			require.ErrorIs(t, err, testDef.err)
			src, err := p.Account(aliceA)
			require.NoError(t, err)
			assert.Equal(t, uint64(1000), src.Amount)
		})
	}
}

func TestCloseAccount(t *testing.T) {
	p, store := setup(t)
	_, err := p.CloseAccount(aliceA, alice, alice)
	require.ErrorIs(t, err, token.ErrNonZeroBalance)
	_, err = p.CloseAccount(bobA, bob, alice)
	require.ErrorIs(t, err, token.ErrUnauthorized)

	reserve, err := p.CloseAccount(bobA, bob, bob)
	require.NoError(t, err)
	assert.Equal(t, token.DefaultAccountReserve, reserve)
	last := store.journal[len(store.journal)-1]
	assert.Equal(t, token.JournalKindClose, last.Kind)
	assert.Equal(t, bob, last.To)

	_, err = p.Account(bobA)
	require.ErrorIs(t, err, token.ErrAccountNotFound)
	_, err = p.CloseAccount(bobA, bob, bob)
	require.ErrorIs(t, err, token.ErrAccountNotFound)
}
