package domain

import "time"

// DonationRecord is one settled donation in the ledger. Records are written
// exactly once per payment intent and never mutated afterwards.
type DonationRecord struct {
	ID                string
	BeneficiaryID     *string
	BeneficiaryAmount int64 // minor units
	PlatformAmount    int64 // minor units
	Currency          string
	SourceIntentID    string
	CreatedAt         time.Time
}

// DonationFilter narrows a ledger listing.
type DonationFilter struct {
	BeneficiaryID *string
	Limit         int
}

// LedgerTotals aggregates the ledger for reporting.
type LedgerTotals struct {
	Count            int64
	BeneficiaryMinor int64
	PlatformMinor    int64
}
