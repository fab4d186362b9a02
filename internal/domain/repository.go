package domain

import "context"

// DonationStore persists and reads ledger entries.
type DonationStore interface {
	// InsertOnce durably writes a record, failing with ErrDuplicateOperation
	// when a record for the same source intent already exists. The uniqueness
	// check and the write are a single atomic operation.
	InsertOnce(ctx context.Context, rec *DonationRecord) error
	List(ctx context.Context, filter DonationFilter) ([]DonationRecord, error)
	Totals(ctx context.Context) (*LedgerTotals, error)
}

// ProfileStore is the beneficiary directory.
type ProfileStore interface {
	Create(ctx context.Context, profile *Profile) error
	List(ctx context.Context, category string) ([]Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
}
