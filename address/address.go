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

// Package address provides account identities and the deterministic
// program-derived addresses used to bind fundraisers and their custodial
// wallets to a single owner.
package address

import (
	"database/sql/driver"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// IdentitySize is the length in bytes of an account identity
const IdentitySize = 32

// IdentityHRP is the bech32 human-readable part used for identities
const IdentityHRP = "cf"

var (
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrWrongHRP        = errors.New("identity has unexpected bech32 prefix")
)

// Identity is a unique account reference for a human or programmatic actor
//
//nolint:recvcheck
type Identity [IdentitySize]byte

// NewIdentity builds an Identity from a 32 byte slice
func NewIdentity(data []byte) (Identity, error) {
	var ret Identity
	if len(data) != IdentitySize {
		return ret, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidIdentity,
			IdentitySize,
			len(data),
		)
	}
	copy(ret[:], data)
	return ret, nil
}

// ParseIdentity accepts either the bech32 form returned by String or a
// 64 character hex string
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if len(s) == IdentitySize*2 {
		data, err := hex.DecodeString(s)
		if err == nil {
			return NewIdentity(data)
		}
	}
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	if hrp != IdentityHRP {
		return Identity{}, fmt.Errorf("%w: %q", ErrWrongHRP, hrp)
	}
	convData, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	return NewIdentity(convData)
}

// IdentityFromSeed derives a stable identity from an arbitrary name. It is
// used for well-known identities such as the program ID and for local
// testing, not for anything that must be unguessable
func IdentityFromSeed(seed string) Identity {
	return Identity(blake2b.Sum256([]byte(seed)))
}

// Bytes returns a copy of the identity as a byte slice
func (i Identity) Bytes() []byte {
	ret := make([]byte, IdentitySize)
	copy(ret, i[:])
	return ret
}

// IsZero reports whether the identity is unset
func (i Identity) IsZero() bool {
	return i == Identity{}
}

// Hex returns the hex encoding of the identity
func (i Identity) Hex() string {
	return hex.EncodeToString(i[:])
}

// String returns the bech32 encoding of the identity
func (i Identity) String() string {
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(i[:], 8, 5, true)
	if err != nil {
		return i.Hex()
	}
	encoded, err := bech32.Encode(IdentityHRP, convData)
	if err != nil {
		return i.Hex()
	}
	return encoded
}

// MarshalText implements encoding.TextMarshaler
func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (i *Identity) UnmarshalText(text []byte) error {
	tmp, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*i = tmp
	return nil
}

// Value stores the identity as raw bytes in SQL databases
func (i Identity) Value() (driver.Value, error) {
	return i.Bytes(), nil
}

// Scan loads an identity stored as raw bytes
func (i *Identity) Scan(val any) error {
	v, ok := val.([]byte)
	if !ok {
		return fmt.Errorf(
			"value was not expected type, wanted []byte, got %T",
			val,
		)
	}
	tmp, err := NewIdentity(v)
	if err != nil {
		return err
	}
	*i = tmp
	return nil
}
