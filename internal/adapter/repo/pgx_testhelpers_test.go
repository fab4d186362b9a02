package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// simpleRow adapts a scan function to pgx.Row for fakes.
type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// testRowsBase supplies the pgx.Rows methods fakes never exercise.
type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

// fakeSQL is a scripted infra.SQLExecutor: each call is answered by the
// configured function or fails loudly.
type fakeSQL struct {
	exec     func(query string, args ...any) (pgconn.CommandTag, error)
	query    func(query string, args ...any) (pgx.Rows, error)
	queryRow func(query string, args ...any) pgx.Row
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.exec == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected Exec: %s", query)
	}
	return f.exec(query, args...)
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if f.query == nil {
		return nil, fmt.Errorf("unexpected Query: %s", query)
	}
	return f.query(query, args...)
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if f.queryRow == nil {
		return simpleRow{scan: func(...any) error { return fmt.Errorf("unexpected QueryRow: %s", query) }}
	}
	return f.queryRow(query, args...)
}
