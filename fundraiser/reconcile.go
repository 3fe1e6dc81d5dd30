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
	"fmt"

	"github.com/blinklabs-io/crowdfund/token"
)

// Reconcile checks that a record agrees with a freshly loaded copy of its
// custodial wallet. It must be called after every operation that moves value
// in or out of the wallet
func Reconcile(rec *Record, wallet *token.Account) error {
	if wallet == nil {
		return fmt.Errorf("%w: wallet not loaded", ErrErroneousBalance)
	}
	if wallet.Address != rec.CustodialWallet {
		return fmt.Errorf(
			"%w: wallet %s is not custodial wallet %s",
			ErrErroneousBalance,
			wallet.Address,
			rec.CustodialWallet,
		)
	}
	if wallet.Mint != rec.Mint {
		return fmt.Errorf(
			"%w: wallet mint %s, fundraiser mint %s",
			ErrErroneousBalance,
			wallet.Mint,
			rec.Mint,
		)
	}
	if wallet.Amount != rec.Balance {
		return BalanceMismatchError{
			Tracked: rec.Balance,
			Held:    wallet.Amount,
		}
	}
	return nil
}
