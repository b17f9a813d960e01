package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWei(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1000000000000000000", 1},
		{"2500000000000000000", 2.5},
		{"0", 0},
		{"1", 0},
		{"1234567890000000000000", 1234.56789},
		{"  5000000000000000000 ", 5},
		{"1500000000000", 0.000002},
	}
	for _, tt := range tests {
		got, err := FromWei(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFromWei_Rejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.5", "0x10"} {
		_, err := FromWei(in)
		assert.ErrorIs(t, err, ErrValidation, in)
	}
}

func TestLedgerPolicyToRecord(t *testing.T) {
	p := LedgerPolicy{
		ID:           "0xabc",
		Holder:       "0xholder",
		PremiumWei:   "3000000000000000000",
		CoverageWei:  "100000000000000000000",
		Status:       1,
		StartTime:    1_700_000_000,
		Duration:     365 * day,
		RenewalCount: 2,
	}
	rec, err := p.ToRecord()
	require.NoError(t, err)

	assert.Equal(t, RecordSourceLedger, rec.Source)
	assert.Equal(t, RecordStatusActive, rec.Status)
	require.NotNil(t, rec.Premium)
	assert.Equal(t, 3.0, *rec.Premium)
	assert.Equal(t, 100.0, rec.Coverage)
	assert.Equal(t, 2, rec.RenewalCount)
	assert.NoError(t, rec.Validate())
}

func TestLedgerPolicyToRecord_BadPremiumIsSkippedLater(t *testing.T) {
	rec, err := LedgerPolicy{ID: "p1", PremiumWei: "garbage", Status: 0}.ToRecord()
	require.NoError(t, err)
	assert.Nil(t, rec.Premium)
	assert.Equal(t, RecordStatusPending, rec.Status)
	assert.ErrorIs(t, rec.Validate(), ErrValidation)
}

func TestLedgerPolicyToRecord_UnknownStatus(t *testing.T) {
	_, err := LedgerPolicy{ID: "p1", PremiumWei: "1", Status: 7}.ToRecord()
	assert.ErrorIs(t, err, ErrValidation)
}
