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

package address

import (
	"errors"
	"fmt"
	"slices"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
)

// Seeds used for the fixed program-derived addresses
const (
	FundraiserSeed    = "fundraiser"
	FundingWalletSeed = "funding-wallet"
	WalletSeed        = "wallet"
)

// MaxSeeds and MaxSeedLength bound the inputs to FindProgramAddress
const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

const derivationMarker = "ProgramDerivedAddress"

var (
	ErrMaxSeedsExceeded     = errors.New("too many derivation seeds")
	ErrMaxSeedLength        = errors.New("derivation seed too long")
	ErrNoViableBump         = errors.New("no viable bump seed found")
	ErrAddressOnCurve       = errors.New("derived address is on the ed25519 curve")
	ErrDerivationMismatched = errors.New("address does not match derivation")
)

// CreateProgramAddress hashes the seeds, the program ID and a fixed marker
// with blake2b-256. The result is rejected if it decodes as a valid ed25519
// point, since such an address could have a private key
func CreateProgramAddress(
	programID Identity,
	seeds ...[]byte,
) (Identity, error) {
	if len(seeds) > MaxSeeds {
		return Identity{}, ErrMaxSeedsExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Identity{}, fmt.Errorf(
				"%w: %d bytes",
				ErrMaxSeedLength,
				len(seed),
			)
		}
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return Identity{}, err
	}
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(derivationMarker))
	var ret Identity
	copy(ret[:], h.Sum(nil))
	if isOnCurve(ret) {
		return Identity{}, ErrAddressOnCurve
	}
	return ret, nil
}

// FindProgramAddress searches for the highest bump seed, starting at 255,
// that yields an off-curve address for the given seeds
func FindProgramAddress(
	programID Identity,
	seeds ...[]byte,
) (Identity, uint8, error) {
	bumpSeeds := make([][]byte, 0, len(seeds)+1)
	bumpSeeds = append(bumpSeeds, seeds...)
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateProgramAddress(
			programID,
			append(bumpSeeds, []byte{uint8(bump)})...,
		)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrAddressOnCurve) {
			return Identity{}, 0, err
		}
	}
	return Identity{}, 0, ErrNoViableBump
}

// VerifyProgramAddress checks that addr is the derivation of seeds with the
// given bump
func VerifyProgramAddress(
	addr Identity,
	bump uint8,
	programID Identity,
	seeds ...[]byte,
) error {
	expected, err := CreateProgramAddress(
		programID,
		slices.Concat(seeds, [][]byte{{bump}})...,
	)
	if err != nil {
		return err
	}
	if expected != addr {
		return ErrDerivationMismatched
	}
	return nil
}

// FundraiserAddress returns the fundraiser record address for an owner
func FundraiserAddress(programID, owner Identity) (Identity, uint8, error) {
	return FindProgramAddress(programID, []byte(FundraiserSeed), owner[:])
}

// FundingWalletAddress returns the custodial wallet address for an owner
func FundingWalletAddress(programID, owner Identity) (Identity, uint8, error) {
	return FindProgramAddress(programID, []byte(FundingWalletSeed), owner[:])
}

// WalletAddress returns the default token wallet address for an owner and
// mint pair
func WalletAddress(programID, owner, mint Identity) (Identity, uint8, error) {
	return FindProgramAddress(
		programID,
		[]byte(WalletSeed),
		owner[:],
		mint[:],
	)
}

func isOnCurve(addr Identity) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}
