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

// Package gormstore implements the metadata queries shared by the SQL
// backends
package gormstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/blinklabs-io/crowdfund/database/models"
	"github.com/blinklabs-io/crowdfund/database/types"
)

const commitTimestampRowId = 1

// CommitTimestamp represents the table used to track the current commit timestamp
type CommitTimestamp struct {
	ID        uint `gorm:"primarykey"`
	Timestamp int64
}

func (CommitTimestamp) TableName() string {
	return "commit_timestamp"
}

// Store runs the metadata queries against an open gorm handle
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New configures tracing on db and applies the schema migrations
func New(db *gorm.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	s := &Store{
		db:     db,
		logger: logger,
	}
	// Configure tracing for GORM
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	if err := s.AutoMigrate(&CommitTimestamp{}); err != nil {
		return nil, err
	}
	if err := s.AutoMigrate(models.MigrateModels...); err != nil {
		return nil, err
	}
	return s, nil
}

// AutoMigrate creates or updates database schema for the given models
func (s *Store) AutoMigrate(dst ...any) error {
	for _, model := range dst {
		s.logger.Debug(fmt.Sprintf("creating table: %T", model))
		if err := s.db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// DB returns the underlying GORM database handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return sqlDB.Close()
}

func (s *Store) GetCommitTimestamp() (int64, error) {
	var tmpCommitTimestamp CommitTimestamp
	result := s.db.First(&tmpCommitTimestamp)
	if result.Error != nil {
		// It's not an error if there's no records found
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, result.Error
	}
	return tmpCommitTimestamp.Timestamp, nil
}

func (s *Store) SetCommitTimestamp(timestamp int64, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	tmpCommitTimestamp := CommitTimestamp{
		ID:        commitTimestampRowId,
		Timestamp: timestamp,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"timestamp"}),
	}).Create(&tmpCommitTimestamp)
	return result.Error
}

// GetMint returns models.ErrMintNotFound if no mint exists at addr
func (s *Store) GetMint(addr []byte, txn types.Txn) (*models.Mint, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret models.Mint
	result := db.Where("address = ?", addr).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrMintNotFound
		}
		return nil, result.Error
	}
	return &ret, nil
}

// SetMint inserts or replaces the mint keyed by its address
func (s *Store) SetMint(mint *models.Mint, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"authority", "supply", "decimals"}),
	}).Create(mint)
	return result.Error
}

// GetTokenAccount returns models.ErrTokenAccountNotFound if no account
// exists at addr
func (s *Store) GetTokenAccount(
	addr []byte,
	txn types.Txn,
) (*models.TokenAccount, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret models.TokenAccount
	result := db.Where("address = ?", addr).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrTokenAccountNotFound
		}
		return nil, result.Error
	}
	return &ret, nil
}

// GetTokenAccountsByOwner returns every account held by owner, ordered by
// creation
func (s *Store) GetTokenAccountsByOwner(
	owner []byte,
	txn types.Txn,
) ([]models.TokenAccount, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.TokenAccount
	result := db.Where("owner = ?", owner).Order("id").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetTokenAccount inserts or replaces the account keyed by its address
func (s *Store) SetTokenAccount(
	account *models.TokenAccount,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"mint", "owner", "amount", "reserve"},
		),
	}).Create(account)
	return result.Error
}

func (s *Store) DeleteTokenAccount(addr []byte, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Where("address = ?", addr).Delete(&models.TokenAccount{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrTokenAccountNotFound
	}
	return nil
}

func (s *Store) AddJournalEntry(entry *models.JournalEntry, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	return db.Create(entry).Error
}

// GetJournalEntries returns the most recent entries touching account,
// newest first. A limit of 0 returns everything
func (s *Store) GetJournalEntries(
	account []byte,
	limit int,
	txn types.Txn,
) ([]models.JournalEntry, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	query := db.Where(
		"from_account = ? OR to_account = ?",
		account,
		account,
	).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var ret []models.JournalEntry
	if result := query.Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
