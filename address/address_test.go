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

package address_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/crowdfund/address"
)

func testIdentity(b byte) address.Identity {
	var ret address.Identity
	for i := range ret {
		ret[i] = b
	}
	return ret
}

func TestIdentityStringRoundTrip(t *testing.T) {
	id := testIdentity(0x42)
	s := id.String()
	require.True(t, strings.HasPrefix(s, address.IdentityHRP+"1"))
	parsed, err := address.ParseIdentity(s)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseIdentityHex(t *testing.T) {
	id := testIdentity(0xab)
	parsed, err := address.ParseIdentity(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseIdentityInvalid(t *testing.T) {
	_, err := address.ParseIdentity("not-an-identity")
	require.ErrorIs(t, err, address.ErrInvalidIdentity)
	_, err = address.NewIdentity([]byte{1, 2, 3})
	require.ErrorIs(t, err, address.ErrInvalidIdentity)
}

func TestIdentityTextMarshal(t *testing.T) {
	id := testIdentity(0x07)
	text, err := id.MarshalText()
	require.NoError(t, err)
	var out address.Identity
	require.NoError(t, out.UnmarshalText(text))
	assert.Equal(t, id, out)
}

func TestIdentityScan(t *testing.T) {
	id := testIdentity(0x11)
	val, err := id.Value()
	require.NoError(t, err)
	var out address.Identity
	require.NoError(t, out.Scan(val))
	assert.Equal(t, id, out)
	require.Error(t, out.Scan("string"))
}

func TestFindProgramAddressDeterministic(t *testing.T) {
	programID := testIdentity(0x01)
	owner := testIdentity(0x02)
	addr1, bump1, err := address.FundraiserAddress(programID, owner)
	require.NoError(t, err)
	addr2, bump2, err := address.FundraiserAddress(programID, owner)
	require.NoError(t, err)
	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
	require.NoError(
		t,
		address.VerifyProgramAddress(
			addr1,
			bump1,
			programID,
			[]byte(address.FundraiserSeed),
			owner[:],
		),
	)
}

func TestFindProgramAddressDistinctSeeds(t *testing.T) {
	programID := testIdentity(0x01)
	owner := testIdentity(0x02)
	other := testIdentity(0x03)
	record, _, err := address.FundraiserAddress(programID, owner)
	require.NoError(t, err)
	wallet, _, err := address.FundingWalletAddress(programID, owner)
	require.NoError(t, err)
	otherRecord, _, err := address.FundraiserAddress(programID, other)
	require.NoError(t, err)
	assert.NotEqual(t, record, wallet)
	assert.NotEqual(t, record, otherRecord)
	assert.False(t, record.IsZero())
}

func TestVerifyProgramAddressMismatch(t *testing.T) {
	programID := testIdentity(0x01)
	owner := testIdentity(0x02)
	addr, bump, err := address.FundraiserAddress(programID, owner)
	require.NoError(t, err)
	err = address.VerifyProgramAddress(
		addr,
		bump,
		programID,
		[]byte(address.FundingWalletSeed),
		owner[:],
	)
	require.Error(t, err)
}

func TestCreateProgramAddressSeedLimits(t *testing.T) {
	programID := testIdentity(0x01)
	_, err := address.CreateProgramAddress(
		programID,
		make([]byte, address.MaxSeedLength+1),
	)
	require.ErrorIs(t, err, address.ErrMaxSeedLength)
	seeds := make([][]byte, address.MaxSeeds+1)
	_, err = address.CreateProgramAddress(programID, seeds...)
	require.ErrorIs(t, err, address.ErrMaxSeedsExceeded)
}

func TestIdentityFromSeed(t *testing.T) {
	a := address.IdentityFromSeed("alice")
	assert.Equal(t, a, address.IdentityFromSeed("alice"))
	assert.NotEqual(t, a, address.IdentityFromSeed("bob"))
	assert.False(t, a.IsZero())
}
