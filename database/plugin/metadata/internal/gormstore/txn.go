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

package gormstore

import (
	"gorm.io/gorm"

	"github.com/blinklabs-io/crowdfund/database/types"
)

// gormTxn wraps a gorm transaction and implements types.Txn
type gormTxn struct {
	store    *Store
	db       *gorm.DB
	beginErr error
	finished bool
}

func (t *gormTxn) Commit() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.finished {
		return nil
	}
	t.finished = true
	return t.db.Commit().Error
}

func (t *gormTxn) Rollback() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.finished {
		return nil
	}
	t.finished = true
	return t.db.Rollback().Error
}

// Transaction begins a new transaction. A failure to begin is reported by
// every later use of the handle
func (s *Store) Transaction() types.Txn {
	db := s.db.Begin()
	if db.Error != nil {
		s.logger.Error(
			"failed to begin transaction",
			"error", db.Error,
		)
		return &gormTxn{store: s, beginErr: db.Error}
	}
	return &gormTxn{store: s, db: db}
}

// resolveDB returns the gorm handle to run a query on. A nil txn runs
// outside of any transaction
func (s *Store) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		return s.db, nil
	}
	gt, ok := txn.(*gormTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if gt.store != s {
		return nil, types.ErrTxnWrongType
	}
	if gt.beginErr != nil {
		return nil, gt.beginErr
	}
	if gt.finished {
		return nil, types.ErrTxnFinished
	}
	return gt.db, nil
}
