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

import "fmt"

// Status is the lifecycle stage of a fundraiser. The numeric values are the
// persisted tags
type Status uint8

const (
	StatusDonationsOpen   Status = 1
	StatusDonationsClosed Status = 2
	StatusCampaignEnded   Status = 3
)

// ParseStatus converts a persisted tag into a Status
func ParseStatus(tag uint8) (Status, error) {
	s := Status(tag)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: tag %d", ErrInvalidStatus, tag)
	}
	return s, nil
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusDonationsOpen, StatusDonationsClosed, StatusCampaignEnded:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether next is strictly later in the lifecycle
func (s Status) CanTransitionTo(next Status) bool {
	return s.Valid() && next.Valid() && next > s
}

func (s Status) String() string {
	switch s {
	case StatusDonationsOpen:
		return "DonationsOpen"
	case StatusDonationsClosed:
		return "DonationsClosed"
	case StatusCampaignEnded:
		return "CampaignEnded"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}
