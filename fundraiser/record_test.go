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

package fundraiser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/crowdfund/fundraiser"
	"github.com/blinklabs-io/crowdfund/internal/test/testutil"
)

func sampleRecord() *fundraiser.Record {
	return &fundraiser.Record{
		Owner:           testutil.Identity("owner"),
		CustodialWallet: testutil.Identity("wallet"),
		Description:     "Café renovation ☕",
		Target:          5000,
		Balance:         1234,
		Mint:            testutil.Identity("mint"),
		Bump:            253,
		Status:          fundraiser.StatusDonationsClosed,
	}
}

func TestRecordRoundTrip(t *testing.T) {
	rec := sampleRecord()
	data, err := rec.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, fundraiser.RecordSize)

	var decoded fundraiser.Record
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, *rec, decoded)
}

func TestRecordSizeIsFixed(t *testing.T) {
	short := sampleRecord()
	short.Description = ""
	long := sampleRecord()
	long.Description = strings.Repeat("𝄞", fundraiser.MaxDescriptionLength)
	shortData, err := short.MarshalBinary()
	require.NoError(t, err)
	longData, err := long.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, shortData, fundraiser.RecordSize)
	assert.Len(t, longData, fundraiser.RecordSize)

	var decoded fundraiser.Record
	require.NoError(t, decoded.UnmarshalBinary(longData))
	assert.Equal(t, long.Description, decoded.Description)
}

func TestRecordUnmarshalRejectsBadData(t *testing.T) {
	data, err := sampleRecord().MarshalBinary()
	require.NoError(t, err)

	var rec fundraiser.Record
	err = rec.UnmarshalBinary(data[:len(data)-1])
	require.ErrorIs(t, err, fundraiser.ErrInvalidRecord)

	badDisc := append([]byte(nil), data...)
	badDisc[0] ^= 0xff
	err = rec.UnmarshalBinary(badDisc)
	require.ErrorIs(t, err, fundraiser.ErrInvalidRecord)

	// The status tag is the final byte
	badStatus := append([]byte(nil), data...)
	badStatus[len(badStatus)-1] = 7
	err = rec.UnmarshalBinary(badStatus)
	require.ErrorIs(t, err, fundraiser.ErrInvalidStatus)

	badStatus[len(badStatus)-1] = 0
	err = rec.UnmarshalBinary(badStatus)
	require.ErrorIs(t, err, fundraiser.ErrInvalidStatus)
}

func TestRecordMarshalRejectsInvalidStatus(t *testing.T) {
	rec := sampleRecord()
	rec.Status = 0
	_, err := rec.MarshalBinary()
	require.ErrorIs(t, err, fundraiser.ErrInvalidStatus)
}

func TestNormalizeDescription(t *testing.T) {
	testDefs := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "empty", input: "", want: ""},
		{name: "ascii at limit", input: strings.Repeat("a", 200), want: strings.Repeat("a", 200)},
		{name: "ascii over limit", input: strings.Repeat("a", 201), wantErr: fundraiser.ErrDescriptionTooLong},
		{name: "multibyte at limit", input: strings.Repeat("é", 200), want: strings.Repeat("é", 200)},
		{name: "multibyte over limit", input: strings.Repeat("é", 201), wantErr: fundraiser.ErrDescriptionTooLong},
		// e followed by a combining acute accent composes to a single character
		{name: "decomposed", input: strings.Repeat("e\u0301", 200), want: strings.Repeat("\u00e9", 200)},
		{name: "invalid utf8", input: "\xff", wantErr: fundraiser.ErrInvalidDescription},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			got, err := fundraiser.NormalizeDescription(testDef.input)
			if testDef.wantErr != nil {
				require.ErrorIs(t, err, testDef.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testDef.want, got)
		})
	}
}

func TestTargetReached(t *testing.T) {
	rec := sampleRecord()
	rec.Balance = rec.Target - 1
	assert.False(t, rec.TargetReached())
	rec.Balance = rec.Target
	assert.True(t, rec.TargetReached())
	rec.Balance = rec.Target + 1
	assert.True(t, rec.TargetReached())
}

func TestRecordClone(t *testing.T) {
	rec := sampleRecord()
	clone := rec.Clone()
	clone.Balance = 0
	assert.Equal(t, uint64(1234), rec.Balance)
}
