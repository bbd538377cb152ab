// Package exporter renders PnL history and max-profit summary tables as
// CSV and XLSX streams for the export endpoints.
//
// CSV output is written with encoding/csv; XLSX output uses excelize. All
// writers stream to an io.Writer so handlers can export directly into the
// HTTP response.
package exporter
