package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// InsertTrades bulk-inserts trades inside one transaction.
func (d *DB) InsertTrades(ctx context.Context, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trades (
		trade_date, ticker, quantity, price
	) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			t.Date.Format(domain.DateFormat), t.Ticker, t.Quantity, t.Price,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert trade %s %s: %w", t.Ticker, t.Date.Format(domain.DateFormat), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	d.logger.InfoContext(ctx, "trades inserted", "count", len(trades))
	return nil
}

// ListTrades returns trades matching the filter ordered by ticker, date and
// insertion order.
func (d *DB) ListTrades(ctx context.Context, filter Filter) ([]domain.Trade, error) {
	where, args := filter.whereClause("trade_date")
	query := `SELECT trade_date, ticker, quantity, price FROM trades` +
		where + ` ORDER BY ticker, trade_date, id`

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var (
			t       domain.Trade
			dateStr string
		)
		if err := rows.Scan(&dateStr, &t.Ticker, &t.Quantity, &t.Price); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Date, err = time.ParseInLocation(domain.DateFormat, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse trade date %q: %w", dateStr, err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// DeleteTrades removes all trades, or only one ticker's trades when ticker
// is non-empty, returning the number of rows deleted.
func (d *DB) DeleteTrades(ctx context.Context, ticker string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if ticker == "" {
		res, err = d.sql.ExecContext(ctx, `DELETE FROM trades`)
	} else {
		res, err = d.sql.ExecContext(ctx, `DELETE FROM trades WHERE ticker = ?`, ticker)
	}
	if err != nil {
		return 0, fmt.Errorf("delete trades: %w", err)
	}
	return res.RowsAffected()
}
