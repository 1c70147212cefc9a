// Package store persists normalized trades in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/trogers1052/insider-feed/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS insider_trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filing_id TEXT,
	ticker TEXT NOT NULL,
	cik TEXT,
	ceo_name TEXT,
	company_name TEXT,
	sector TEXT,
	market_cap TEXT,
	accession_no TEXT NOT NULL,
	period_of_report TEXT,
	transaction_type TEXT NOT NULL,
	total_shares REAL NOT NULL,
	share_price REAL NOT NULL,
	disclosed_date TEXT,
	total_amount_spent REAL NOT NULL,
	total_shares_after_transaction REAL NOT NULL,
	change_in_shares_percentage REAL NOT NULL,
	link TEXT,
	one_week_return REAL,
	one_month_return REAL,
	six_months_return REAL,
	UNIQUE (accession_no, transaction_type)
);`

// Store is a SQLite-backed trade store. Inserts are idempotent on
// (accession_no, transaction_type) so stream replays and backfill
// overlaps do not duplicate rows.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// InsertTrades writes a batch in one transaction. Sale rows are written
// without the return columns; purchase rows carry them (possibly NULL,
// to be filled in later by the returns worker).
func (s *Store) InsertTrades(ctx context.Context, trades []models.NormalizedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, trade := range trades {
		if err := insertOne(ctx, tx, trade); err != nil {
			return fmt.Errorf("insert trade %s/%s: %w", trade.AccessionNo, trade.TransactionType, err)
		}
	}

	return tx.Commit()
}

const baseColumns = `filing_id, ticker, cik, ceo_name, company_name, sector, market_cap,
	accession_no, period_of_report, transaction_type, total_shares, share_price,
	disclosed_date, total_amount_spent, total_shares_after_transaction,
	change_in_shares_percentage, link`

func insertOne(ctx context.Context, tx *sql.Tx, trade models.NormalizedTrade) error {
	args := []any{
		trade.FilingID, trade.Ticker, trade.CIK, trade.CEOName, trade.CompanyName,
		trade.Sector, trade.MarketCap, trade.AccessionNo, trade.PeriodOfReport,
		trade.TransactionType, trade.TotalShares, trade.SharePrice,
		trade.DisclosedDate, trade.TotalAmountSpent, trade.TotalSharesAfterTransaction,
		trade.ChangeInSharesPercentage, trade.Link,
	}

	query := `INSERT OR IGNORE INTO insider_trades (` + baseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if trade.TransactionType == models.TransactionPurchase {
		query = `INSERT OR IGNORE INTO insider_trades (` + baseColumns + `,
			one_week_return, one_month_return, six_months_return)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		args = append(args, trade.OneWeekReturn, trade.OneMonthReturn, trade.SixMonthsReturn)
	}

	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// Count returns the number of stored trades.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM insider_trades`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
