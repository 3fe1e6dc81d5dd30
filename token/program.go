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

package token

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/blinklabs-io/crowdfund/address"
)

// Program applies token operations against a Store. Every operation
// validates all inputs before writing anything
type Program struct {
	store   Store
	reserve uint64
}

// NewProgram returns a token program backed by store. New accounts hold the
// given reserve
func NewProgram(store Store, reserve uint64) *Program {
	return &Program{
		store:   store,
		reserve: reserve,
	}
}

// CreateMint registers a new token type
func (p *Program) CreateMint(
	addr address.Identity,
	authority address.Identity,
	decimals uint8,
) (*Mint, error) {
	if _, err := p.store.GetMint(addr); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrMintExists, addr)
	} else if !errors.Is(err, ErrMintNotFound) {
		return nil, err
	}
	mint := &Mint{
		Address:   addr,
		Authority: authority,
		Decimals:  decimals,
	}
	if err := p.store.CreateMint(mint); err != nil {
		return nil, err
	}
	return mint, nil
}

// Mint returns the current state of a mint
func (p *Program) Mint(addr address.Identity) (*Mint, error) {
	return p.store.GetMint(addr)
}

// MintTo issues new tokens into dest. Only the mint authority may do this
func (p *Program) MintTo(
	mintAddr address.Identity,
	dest address.Identity,
	authority address.Identity,
	amount uint64,
) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	mint, err := p.store.GetMint(mintAddr)
	if err != nil {
		return err
	}
	if mint.Authority != authority {
		return fmt.Errorf("%w: mint %s", ErrUnauthorized, mintAddr)
	}
	account, err := p.store.GetAccount(dest)
	if err != nil {
		return err
	}
	if account.Mint != mint.Address {
		return fmt.Errorf(
			"%w: account %s holds %s, not %s",
			ErrMintMismatch,
			dest,
			account.Mint,
			mint.Address,
		)
	}
	newSupply, carry := bits.Add64(mint.Supply, amount, 0)
	if carry != 0 {
		return fmt.Errorf("%w: mint supply", ErrOverflow)
	}
	newAmount, carry := bits.Add64(account.Amount, amount, 0)
	if carry != 0 {
		return fmt.Errorf("%w: account %s", ErrOverflow, dest)
	}
	mint.Supply = newSupply
	account.Amount = newAmount
	if err := p.store.UpdateMint(mint); err != nil {
		return err
	}
	if err := p.store.UpdateAccount(account); err != nil {
		return err
	}
	return p.store.AppendJournal(&JournalEntry{
		Kind:      JournalKindMintTo,
		Mint:      mint.Address,
		To:        dest,
		Authority: authority,
		Amount:    amount,
	})
}

// InitializeAccount creates an empty token account for mint owned by owner
func (p *Program) InitializeAccount(
	addr address.Identity,
	mintAddr address.Identity,
	owner address.Identity,
) (*Account, error) {
	if _, err := p.store.GetMint(mintAddr); err != nil {
		return nil, err
	}
	if _, err := p.store.GetAccount(addr); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, addr)
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}
	account := &Account{
		Address: addr,
		Mint:    mintAddr,
		Owner:   owner,
		Reserve: p.reserve,
	}
	if err := p.store.CreateAccount(account); err != nil {
		return nil, err
	}
	if err := p.store.AppendJournal(&JournalEntry{
		Kind:      JournalKindInitialize,
		Mint:      mintAddr,
		To:        addr,
		Authority: owner,
	}); err != nil {
		return nil, err
	}
	return account, nil
}

// Account reloads the current state of a token account
func (p *Program) Account(addr address.Identity) (*Account, error) {
	return p.store.GetAccount(addr)
}

// Transfer moves amount from one account to another. The authority must own
// the source account and both accounts must hold the same mint
func (p *Program) Transfer(
	from address.Identity,
	to address.Identity,
	authority address.Identity,
	amount uint64,
) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrSelfTransfer
	}
	src, err := p.store.GetAccount(from)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := p.store.GetAccount(to)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if src.Owner != authority {
		return fmt.Errorf("%w: account %s", ErrUnauthorized, from)
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf(
			"%w: source holds %s, destination holds %s",
			ErrMintMismatch,
			src.Mint,
			dst.Mint,
		)
	}
	if src.Amount < amount {
		return fmt.Errorf(
			"%w: account %s holds %d, need %d",
			ErrInsufficientFunds,
			from,
			src.Amount,
			amount,
		)
	}
	newAmount, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return fmt.Errorf("%w: account %s", ErrOverflow, to)
	}
	src.Amount -= amount
	dst.Amount = newAmount
	if err := p.store.UpdateAccount(src); err != nil {
		return err
	}
	if err := p.store.UpdateAccount(dst); err != nil {
		return err
	}
	return p.store.AppendJournal(&JournalEntry{
		Kind:      JournalKindTransfer,
		Mint:      src.Mint,
		From:      from,
		To:        to,
		Authority: authority,
		Amount:    amount,
	})
}

// CloseAccount removes an empty token account and returns its reserve to
// destination. It returns the reserve amount released
func (p *Program) CloseAccount(
	addr address.Identity,
	destination address.Identity,
	authority address.Identity,
) (uint64, error) {
	account, err := p.store.GetAccount(addr)
	if err != nil {
		return 0, err
	}
	if account.Owner != authority {
		return 0, fmt.Errorf("%w: account %s", ErrUnauthorized, addr)
	}
	if account.Amount != 0 {
		return 0, fmt.Errorf(
			"%w: account %s holds %d",
			ErrNonZeroBalance,
			addr,
			account.Amount,
		)
	}
	if err := p.store.DeleteAccount(addr); err != nil {
		return 0, err
	}
	if err := p.store.AppendJournal(&JournalEntry{
		Kind:      JournalKindClose,
		Mint:      account.Mint,
		From:      addr,
		To:        destination,
		Authority: authority,
		Amount:    account.Reserve,
	}); err != nil {
		return 0, err
	}
	return account.Reserve, nil
}
