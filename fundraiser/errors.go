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
	"errors"
	"fmt"
)

var (
	ErrInvalidTarget       = errors.New("target must be greater than zero")
	ErrDescriptionTooLong  = errors.New("description is too long")
	ErrInvalidDescription  = errors.New("description is not valid UTF-8")
	ErrInvalidStatus       = errors.New("invalid fundraiser status")
	ErrClosedToDonations   = errors.New("fundraiser is closed to donations")
	ErrErroneousBalance    = errors.New("fundraiser balance does not match custodial wallet")
	ErrBalanceOverflow     = errors.New("fundraiser balance overflow")
	ErrInvalidAmount       = errors.New("donation amount must be greater than zero")
	ErrInvalidTransition   = errors.New("invalid fundraiser status transition")
	ErrFundraiserExists    = errors.New("fundraiser already exists")
	ErrFundraiserNotFound  = errors.New("fundraiser not found")
	ErrWalletClosed        = errors.New("custodial wallet is closed")
	ErrWalletOwnerMismatch = errors.New("wallet is not owned by signer")
	ErrUnauthorized        = errors.New("signer is not the fundraiser owner")
	ErrInvalidRecord       = errors.New("invalid fundraiser record")
	ErrUnknownInstruction  = errors.New("unknown instruction")
)

// BalanceMismatchError describes a failed reconciliation between the balance
// tracked in a fundraiser record and the amount actually held by its
// custodial wallet
type BalanceMismatchError struct {
	Tracked uint64
	Held    uint64
}

func (e BalanceMismatchError) Error() string {
	return fmt.Sprintf(
		"%s: tracked %d, held %d",
		ErrErroneousBalance,
		e.Tracked,
		e.Held,
	)
}

func (e BalanceMismatchError) Unwrap() error {
	return ErrErroneousBalance
}
