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

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/database/models"
	"github.com/blinklabs-io/crowdfund/database/types"
	"github.com/blinklabs-io/crowdfund/token"
)

// ledgerStore implements token.Store on top of the metadata store
type ledgerStore struct {
	db  *Database
	txn *Txn
}

func (s *ledgerStore) writable() error {
	if !s.txn.readWrite {
		return types.ErrReadOnlyTxn
	}
	return nil
}

func (s *ledgerStore) GetMint(addr address.Identity) (*token.Mint, error) {
	m, err := s.db.Metadata().GetMint(addr.Bytes(), s.txn.Metadata())
	if err != nil {
		if errors.Is(err, models.ErrMintNotFound) {
			return nil, fmt.Errorf("%w: %s", token.ErrMintNotFound, addr)
		}
		return nil, err
	}
	return m.Token()
}

func (s *ledgerStore) CreateMint(mint *token.Mint) error {
	return s.setMint(mint)
}

func (s *ledgerStore) UpdateMint(mint *token.Mint) error {
	return s.setMint(mint)
}

func (s *ledgerStore) setMint(mint *token.Mint) error {
	if err := s.writable(); err != nil {
		return err
	}
	tmpMint := models.MintFromToken(mint)
	return s.db.Metadata().SetMint(&tmpMint, s.txn.Metadata())
}

func (s *ledgerStore) GetAccount(addr address.Identity) (*token.Account, error) {
	a, err := s.db.Metadata().GetTokenAccount(addr.Bytes(), s.txn.Metadata())
	if err != nil {
		if errors.Is(err, models.ErrTokenAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", token.ErrAccountNotFound, addr)
		}
		return nil, err
	}
	return a.Token()
}

func (s *ledgerStore) CreateAccount(account *token.Account) error {
	return s.setAccount(account)
}

func (s *ledgerStore) UpdateAccount(account *token.Account) error {
	return s.setAccount(account)
}

func (s *ledgerStore) setAccount(account *token.Account) error {
	if err := s.writable(); err != nil {
		return err
	}
	tmpAccount := models.TokenAccountFromToken(account)
	return s.db.Metadata().SetTokenAccount(&tmpAccount, s.txn.Metadata())
}

func (s *ledgerStore) DeleteAccount(addr address.Identity) error {
	if err := s.writable(); err != nil {
		return err
	}
	err := s.db.Metadata().DeleteTokenAccount(addr.Bytes(), s.txn.Metadata())
	if errors.Is(err, models.ErrTokenAccountNotFound) {
		return fmt.Errorf("%w: %s", token.ErrAccountNotFound, addr)
	}
	return err
}

func (s *ledgerStore) AppendJournal(entry *token.JournalEntry) error {
	if err := s.writable(); err != nil {
		return err
	}
	tmpEntry := models.JournalEntryFromToken(entry)
	return s.db.Metadata().AddJournalEntry(&tmpEntry, s.txn.Metadata())
}

// TokenAccountsByOwner returns every token account held by owner
func (d *Database) TokenAccountsByOwner(
	ctx context.Context,
	owner address.Identity,
) ([]*token.Account, error) {
	var ret []*token.Account
	err := d.execute(ctx, false, func(txn *Txn) error {
		accounts, err := d.Metadata().GetTokenAccountsByOwner(
			owner.Bytes(),
			txn.Metadata(),
		)
		if err != nil {
			return err
		}
		ret = make([]*token.Account, 0, len(accounts))
		for i := range accounts {
			acct, err := accounts[i].Token()
			if err != nil {
				return err
			}
			ret = append(ret, acct)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// TokenJournal returns up to limit of the most recent value movements into
// or out of account, newest first. A limit of 0 returns the full history
func (d *Database) TokenJournal(
	ctx context.Context,
	account address.Identity,
	limit int,
) ([]*token.JournalEntry, error) {
	var ret []*token.JournalEntry
	err := d.execute(ctx, false, func(txn *Txn) error {
		entries, err := d.Metadata().GetJournalEntries(
			account.Bytes(),
			limit,
			txn.Metadata(),
		)
		if err != nil {
			return err
		}
		ret = make([]*token.JournalEntry, 0, len(entries))
		for i := range entries {
			entry, err := entries[i].Token()
			if err != nil {
				return err
			}
			ret = append(ret, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
