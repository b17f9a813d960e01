package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// WeiDecimals is the fixed-point scale of ledger amounts.
	WeiDecimals = 18
	// ConvertedDecimals is the precision kept after conversion to decimal units.
	ConvertedDecimals = 6
)

// FromWei converts a base-10 wei amount into decimal units, keeping ConvertedDecimals digits.
func FromWei(wei string) (float64, error) {
	wei = strings.TrimSpace(wei)
	if wei == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrValidation)
	}
	d, err := decimal.NewFromString(wei)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q: %v", ErrValidation, wei, err)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%w: amount %q is not an integer wei value", ErrValidation, wei)
	}
	return d.Shift(-WeiDecimals).Round(ConvertedDecimals).InexactFloat64(), nil
}

// LedgerPolicy is a policy as read from the on-chain contract.
type LedgerPolicy struct {
	ID           string `json:"id"`
	Holder       string `json:"holder"`
	PremiumWei   string `json:"premiumWei"`
	CoverageWei  string `json:"coverageWei"`
	Status       uint8  `json:"status"` // 0 pending, 1 active, 2 expired
	StartTime    int64  `json:"startTime"`
	Duration     int64  `json:"duration"`
	RenewalCount int    `json:"renewalCount"`
}

func ledgerStatus(code uint8) (RecordStatus, error) {
	switch code {
	case 0:
		return RecordStatusPending, nil
	case 1:
		return RecordStatusActive, nil
	case 2:
		return RecordStatusExpired, nil
	default:
		return "", fmt.Errorf("%w: unknown ledger status %d", ErrValidation, code)
	}
}

// ToRecord converts wei amounts and the status code. A premium that cannot be parsed
// leaves Premium nil so the pipeline skips the record instead of scoring it as zero.
func (p LedgerPolicy) ToRecord() (Record, error) {
	status, err := ledgerStatus(p.Status)
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:           p.ID,
		Source:       RecordSourceLedger,
		CRMID:        p.Holder,
		Status:       status,
		StartTime:    p.StartTime,
		Duration:     p.Duration,
		RenewalCount: p.RenewalCount,
	}
	if premium, err := FromWei(p.PremiumWei); err == nil {
		rec.Premium = &premium
	}
	if p.CoverageWei != "" {
		coverage, err := FromWei(p.CoverageWei)
		if err != nil {
			return Record{}, fmt.Errorf("policy %s coverage: %w", p.ID, err)
		}
		rec.Coverage = coverage
	}
	return rec, nil
}
