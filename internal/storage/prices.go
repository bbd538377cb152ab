package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// InsertPrices bulk-upserts price observations inside one transaction. A
// later observation for the same (ticker, date) replaces the earlier one.
func (d *DB) InsertPrices(ctx context.Context, prices []domain.PriceObservation) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO prices (
		trade_date, ticker, close_price
	) VALUES (?, ?, ?)
	ON CONFLICT (ticker, trade_date) DO UPDATE SET close_price = excluded.close_price`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx,
			p.Date.Format(domain.DateFormat), p.Ticker, p.Close,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert price %s %s: %w", p.Ticker, p.Date.Format(domain.DateFormat), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	d.logger.InfoContext(ctx, "prices upserted", "count", len(prices))
	return nil
}

// ListPrices returns price observations matching the filter ordered by
// ticker then date.
func (d *DB) ListPrices(ctx context.Context, filter Filter) ([]domain.PriceObservation, error) {
	where, args := filter.whereClause("trade_date")
	query := `SELECT trade_date, ticker, close_price FROM prices` +
		where + ` ORDER BY ticker, trade_date`

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var prices []domain.PriceObservation
	for rows.Next() {
		var (
			p       domain.PriceObservation
			dateStr string
		)
		if err := rows.Scan(&dateStr, &p.Ticker, &p.Close); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		p.Date, err = time.ParseInLocation(domain.DateFormat, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse price date %q: %w", dateStr, err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// DeletePrices removes all price observations, or only one ticker's when
// ticker is non-empty, returning the number of rows deleted.
func (d *DB) DeletePrices(ctx context.Context, ticker string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if ticker == "" {
		res, err = d.sql.ExecContext(ctx, `DELETE FROM prices`)
	} else {
		res, err = d.sql.ExecContext(ctx, `DELETE FROM prices WHERE ticker = ?`, ticker)
	}
	if err != nil {
		return 0, fmt.Errorf("delete prices: %w", err)
	}
	return res.RowsAffected()
}
