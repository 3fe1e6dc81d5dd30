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

package fundraiser

import (
	"context"

	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/token"
)

// RecordStore persists fundraiser records by their derived address
type RecordStore interface {
	// GetFundraiser returns ErrFundraiserNotFound when no record exists
	GetFundraiser(addr address.Identity) (*Record, error)
	// CreateFundraiser returns ErrFundraiserExists when a record exists
	CreateFundraiser(addr address.Identity, rec *Record) error
	UpdateFundraiser(addr address.Identity, rec *Record) error
}

// Ledger is the custodial value-holding account abstraction. It is
// satisfied by *token.Program
type Ledger interface {
	InitializeAccount(
		addr address.Identity,
		mint address.Identity,
		owner address.Identity,
	) (*token.Account, error)
	Account(addr address.Identity) (*token.Account, error)
	Transfer(
		from address.Identity,
		to address.Identity,
		authority address.Identity,
		amount uint64,
	) error
	CloseAccount(
		addr address.Identity,
		destination address.Identity,
		authority address.Identity,
	) (uint64, error)
}

// Host is the view of the execution environment available to a single
// operation. Everything done through a Host is committed or discarded as a
// unit
type Host interface {
	Records() RecordStore
	Ledger() Ledger
	// AfterCommit registers fn to run only once the operation's effects
	// have been committed
	AfterCommit(fn func())
}

// Executor runs operations atomically and serially. If fn returns an error
// none of its effects are kept
type Executor interface {
	Execute(ctx context.Context, readWrite bool, fn func(Host) error) error
}
