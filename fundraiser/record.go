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
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"

	"github.com/blinklabs-io/crowdfund/address"
)

const (
	// MaxDescriptionLength is the maximum description length in characters
	MaxDescriptionLength = 200
	// DescriptionSpace is the number of bytes reserved for the description.
	// A UTF-8 character takes at most 4 bytes
	DescriptionSpace = MaxDescriptionLength * utf8.UTFMax

	discriminatorSize = 8
	// RecordSize is the fixed serialized size of a Record
	RecordSize = discriminatorSize +
		address.IdentitySize + // owner
		address.IdentitySize + // custodial wallet
		4 + DescriptionSpace + // description
		8 + // target
		8 + // balance
		address.IdentitySize + // mint
		1 + // bump
		1 // status
)

var recordDiscriminator = func() [discriminatorSize]byte {
	var ret [discriminatorSize]byte
	sum := blake2b.Sum256([]byte("account:Fundraiser"))
	copy(ret[:], sum[:discriminatorSize])
	return ret
}()

// Record is the persistent state of a single fundraiser
type Record struct {
	Owner           address.Identity
	CustodialWallet address.Identity
	Description     string
	Target          uint64
	Balance         uint64
	Mint            address.Identity
	Bump            uint8
	Status          Status
}

// Clone returns a copy of the record
func (r *Record) Clone() *Record {
	tmp := *r
	return &tmp
}

// transition moves the record to next, refusing anything but forward moves
func (r *Record) transition(next Status) error {
	if r.Status == next {
		return nil
	}
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf(
			"%w: %s to %s",
			ErrInvalidTransition,
			r.Status,
			next,
		)
	}
	r.Status = next
	return nil
}

// TargetReached reports whether the tracked balance has met the target
func (r *Record) TargetReached() bool {
	return r.Balance >= r.Target
}

// NormalizeDescription returns the NFC form of desc, failing if it is not
// valid UTF-8 or is longer than MaxDescriptionLength characters
func NormalizeDescription(desc string) (string, error) {
	if !utf8.ValidString(desc) {
		return "", ErrInvalidDescription
	}
	ret := norm.NFC.String(desc)
	if n := utf8.RuneCountInString(ret); n > MaxDescriptionLength {
		return "", fmt.Errorf(
			"%w: %d characters, maximum %d",
			ErrDescriptionTooLong,
			n,
			MaxDescriptionLength,
		)
	}
	return ret, nil
}

// MarshalBinary encodes the record into its fixed-size layout
func (r *Record) MarshalBinary() ([]byte, error) {
	if len(r.Description) > DescriptionSpace {
		return nil, fmt.Errorf(
			"%w: %d bytes, reserved %d",
			ErrDescriptionTooLong,
			len(r.Description),
			DescriptionSpace,
		)
	}
	if !r.Status.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(r.Status))
	}
	buf := make([]byte, RecordSize)
	off := copy(buf, recordDiscriminator[:])
	off += copy(buf[off:], r.Owner[:])
	off += copy(buf[off:], r.CustodialWallet[:])
	binary.LittleEndian.PutUint32(buf[off:], uint32(len(r.Description))) //nolint:gosec // bounded by DescriptionSpace
	off += 4
	copy(buf[off:], r.Description)
	off += DescriptionSpace
	binary.LittleEndian.PutUint64(buf[off:], r.Target)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], r.Balance)
	off += 8
	off += copy(buf[off:], r.Mint[:])
	buf[off] = r.Bump
	buf[off+1] = uint8(r.Status)
	return buf, nil
}

// UnmarshalBinary decodes a record from its fixed-size layout
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidRecord,
			RecordSize,
			len(data),
		)
	}
	if !bytes.Equal(data[:discriminatorSize], recordDiscriminator[:]) {
		return fmt.Errorf("%w: bad discriminator", ErrInvalidRecord)
	}
	off := discriminatorSize
	var tmp Record
	off += copy(tmp.Owner[:], data[off:])
	off += copy(tmp.CustodialWallet[:], data[off:])
	descLen := binary.LittleEndian.Uint32(data[off:])
	off += 4
	if descLen > DescriptionSpace {
		return fmt.Errorf(
			"%w: length prefix %d exceeds reserved %d",
			ErrDescriptionTooLong,
			descLen,
			DescriptionSpace,
		)
	}
	tmp.Description = string(data[off : off+int(descLen)])
	off += DescriptionSpace
	tmp.Target = binary.LittleEndian.Uint64(data[off:])
	off += 8
	tmp.Balance = binary.LittleEndian.Uint64(data[off:])
	off += 8
	off += copy(tmp.Mint[:], data[off:])
	tmp.Bump = data[off]
	status, err := ParseStatus(data[off+1])
	if err != nil {
		return err
	}
	tmp.Status = status
	*r = tmp
	return nil
}
