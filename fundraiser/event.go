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
	"github.com/blinklabs-io/crowdfund/address"
	"github.com/blinklabs-io/crowdfund/event"
)

const (
	StartedEventType       event.EventType = "fundraiser.started"
	DonationEventType      event.EventType = "fundraiser.donation"
	TargetReachedEventType event.EventType = "fundraiser.target_reached"
	WithdrawalEventType    event.EventType = "fundraiser.withdrawal"
)

// StartedEvent is published after a fundraiser has been created
type StartedEvent struct {
	Fundraiser address.Identity
	Owner      address.Identity
	Mint       address.Identity
	Target     uint64
}

// DonationEvent is published after a donation has been committed
type DonationEvent struct {
	Fundraiser address.Identity
	Donor      address.Identity
	Wallet     address.Identity
	Amount     uint64
	Balance    uint64
}

// TargetReachedEvent is published when a donation brings the balance to or
// past the target and the fundraiser closes to donations
type TargetReachedEvent struct {
	Fundraiser address.Identity
	Target     uint64
	Balance    uint64
}

// WithdrawalEvent is published after the owner has withdrawn the custodial
// funds
type WithdrawalEvent struct {
	Withdrawal
}
