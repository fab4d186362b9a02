package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// DonationRepositoryPG implements domain.DonationStore on PostgreSQL.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sqlx infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sqlx}
}

// InsertOnce writes a donation record, relying on the unique constraint on
// source_intent_id to collapse concurrent duplicate deliveries into a single
// row. A constraint hit maps to domain.ErrDuplicateOperation.
func (r *DonationRepositoryPG) InsertOnce(ctx context.Context, rec *domain.DonationRecord) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertDonation,
		rec.ID, rec.BeneficiaryID, rec.BeneficiaryAmount, rec.PlatformAmount, rec.Currency, rec.SourceIntentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateOperation
		}
		return err
	}
	return nil
}

// List returns ledger entries, optionally filtered by beneficiary.
func (r *DonationRepositoryPG) List(ctx context.Context, filter domain.DonationFilter) ([]domain.DonationRecord, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.sql.Query(ctx, sqlinline.QListDonations, filter.BeneficiaryID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.DonationRecord
	for rows.Next() {
		var rec domain.DonationRecord
		var beneficiary sql.NullString
		if err := rows.Scan(&rec.ID, &beneficiary, &rec.BeneficiaryAmount, &rec.PlatformAmount, &rec.Currency, &rec.SourceIntentID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if beneficiary.Valid {
			rec.BeneficiaryID = &beneficiary.String
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Totals aggregates the ledger.
func (r *DonationRepositoryPG) Totals(ctx context.Context) (*domain.LedgerTotals, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QDonationTotals)
	var totals domain.LedgerTotals
	if err := row.Scan(&totals.Count, &totals.BeneficiaryMinor, &totals.PlatformMinor); err != nil {
		return nil, err
	}
	return &totals, nil
}
