package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tradepulse/pkg/contracts/domain"
)

// summaryHeaders are the columns of a max-profit summary export.
var summaryHeaders = []string{
	"ticker", "strategy", "buy_date", "sell_date",
	"buy_price", "sell_price", "max_profit", "profit_percentage",
}

// summaryRecord renders one summary row as CSV fields.
func summaryRecord(row domain.ProfitSummaryRow) []string {
	return []string{
		row.Ticker,
		row.Strategy,
		row.BuyDate,
		row.SellDate,
		formatFloat(row.BuyPrice),
		formatFloat(row.SellPrice),
		formatFloat(row.MaxProfit),
		formatFloat(row.ProfitPercentage),
	}
}

// WriteSummaryCSV streams the max-profit summary table as CSV.
func WriteSummaryCSV(w io.Writer, rows []domain.ProfitSummaryRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(summaryHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(summaryRecord(row)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSummaryXLSX streams the max-profit summary table as an XLSX
// workbook with a single "Max Profit" sheet.
func WriteSummaryXLSX(w io.Writer, rows []domain.ProfitSummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Max Profit"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range summaryHeaders {
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
			row.Ticker,
			row.Strategy,
			row.BuyDate,
			row.SellDate,
			row.BuyPrice,
			row.SellPrice,
			row.MaxProfit,
			row.ProfitPercentage,
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
