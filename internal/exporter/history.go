package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tradepulse/pkg/contracts/domain"
)

// historyHeaders are the columns of a PnL history export.
var historyHeaders = []string{
	"date", "ticker", "close_price", "trade_execution_price",
	"position_size_after_trade", "position_basis_after_trade",
	"realized_pnl", "unrealized_pnl", "total_pnl",
}

// historyRecord renders one history row as CSV fields.
func historyRecord(row domain.PnLHistoryRow) []string {
	return []string{
		row.Date.Format(domain.DateFormat),
		row.Ticker,
		formatFloat(row.ClosePrice),
		formatFloat(row.TradeExecutionPrice),
		formatInt(row.PositionSizeAfterTrade),
		formatFloat(row.PositionBasisAfterTrade),
		formatFloat(row.RealizedPnL),
		formatFloat(row.UnrealizedPnL),
		formatFloat(row.TotalPnL),
	}
}

// WriteHistoryCSV streams the PnL history table as CSV.
func WriteHistoryCSV(w io.Writer, rows []domain.PnLHistoryRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(historyHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(historyRecord(row)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteHistoryXLSX streams the PnL history table as an XLSX workbook with
// a single "PnL History" sheet.
func WriteHistoryXLSX(w io.Writer, rows []domain.PnLHistoryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "PnL History"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range historyHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.Date.Format(domain.DateFormat),
			row.Ticker,
			row.ClosePrice,
			row.TradeExecutionPrice,
			row.PositionSizeAfterTrade,
			row.PositionBasisAfterTrade,
			row.RealizedPnL,
			row.UnrealizedPnL,
			row.TotalPnL,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set value: %w", err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
