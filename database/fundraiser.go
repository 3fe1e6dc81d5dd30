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
	"github.com/blinklabs-io/crowdfund/database/types"
	"github.com/blinklabs-io/crowdfund/fundraiser"
)

const fundraiserKeyPrefix = "fr"

func FundraiserBlobKey(addr address.Identity) []byte {
	key := make([]byte, 0, len(fundraiserKeyPrefix)+address.IdentitySize)
	key = append(key, fundraiserKeyPrefix...)
	key = append(key, addr[:]...)
	return key
}

// recordStore keeps fundraiser records in the blob store
type recordStore struct {
	db  *Database
	txn *Txn
}

func (s *recordStore) GetFundraiser(
	addr address.Identity,
) (*fundraiser.Record, error) {
	val, err := s.db.Blob().Get(s.txn.Blob(), FundraiserBlobKey(addr))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", fundraiser.ErrFundraiserNotFound, addr)
		}
		return nil, err
	}
	var rec fundraiser.Record
	if err := rec.UnmarshalBinary(val); err != nil {
		return nil, fmt.Errorf("decode fundraiser %s: %w", addr, err)
	}
	return &rec, nil
}

func (s *recordStore) CreateFundraiser(
	addr address.Identity,
	rec *fundraiser.Record,
) error {
	if _, err := s.GetFundraiser(addr); err == nil {
		return fmt.Errorf("%w: %s", fundraiser.ErrFundraiserExists, addr)
	} else if !errors.Is(err, fundraiser.ErrFundraiserNotFound) {
		return err
	}
	return s.put(addr, rec)
}

func (s *recordStore) UpdateFundraiser(
	addr address.Identity,
	rec *fundraiser.Record,
) error {
	if _, err := s.GetFundraiser(addr); err != nil {
		return err
	}
	return s.put(addr, rec)
}

func (s *recordStore) put(addr address.Identity, rec *fundraiser.Record) error {
	val, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	return s.db.Blob().Set(s.txn.Blob(), FundraiserBlobKey(addr), val)
}

// FundraiserEntry is a stored fundraiser and its record address
type FundraiserEntry struct {
	Address address.Identity
	Record  *fundraiser.Record
}

// ListFundraisers returns every stored fundraiser ordered by address
func (d *Database) ListFundraisers(ctx context.Context) ([]FundraiserEntry, error) {
	var ret []FundraiserEntry
	err := d.execute(ctx, false, func(txn *Txn) error {
		return d.Blob().Iterate(
			txn.Blob(),
			[]byte(fundraiserKeyPrefix),
			func(key []byte, val []byte) error {
				addr, err := address.NewIdentity(key[len(fundraiserKeyPrefix):])
				if err != nil {
					return fmt.Errorf("fundraiser key %x: %w", key, err)
				}
				rec := &fundraiser.Record{}
				if err := rec.UnmarshalBinary(val); err != nil {
					return fmt.Errorf("decode fundraiser %s: %w", addr, err)
				}
				ret = append(ret, FundraiserEntry{Address: addr, Record: rec})
				return nil
			},
		)
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
