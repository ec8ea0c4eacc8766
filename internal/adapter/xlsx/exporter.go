// Package xlsx exports a bar-chart selection as an Excel workbook.
package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

const (
	recordsSheet = "Records"
	summarySheet = "Summary"
)

var recordsHeader = []string{"Country", "Year", "Temperature Change °C"}

// Exporter writes workbooks with a tidy "Records" sheet and a country by year
// "Summary" sheet.
type Exporter struct{}

// NewExporter creates an Exporter.
func NewExporter() *Exporter { return &Exporter{} }

// Export writes the workbook to w. Missing values are left as empty cells.
func (e *Exporter) Export(w io.Writer, records []domain.TidyRecord, series []domain.BarSeries) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRecords(f, records); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", summarySheet, err)
	}
	if err := writeSummary(f, series); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRecords(f *excelize.File, records []domain.TidyRecord) error {
	if err := writeHeader(f, recordsSheet, recordsHeader, 22); err != nil {
		return err
	}
	for i, r := range records {
		row := []any{r.Country, r.Year, nil}
		if r.TemperatureChange != nil {
			row[2] = *r.TemperatureChange
		}
		if err := setRow(f, recordsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// writeSummary lays out one row per country and one column per year.
func writeSummary(f *excelize.File, series []domain.BarSeries) error {
	years := summaryYears(series)
	header := make([]string, 0, len(years)+1)
	header = append(header, "Country")
	col := make(map[int]int, len(years))
	for i, y := range years {
		header = append(header, strconv.Itoa(y))
		col[y] = i + 1
	}
	if err := writeHeader(f, summarySheet, header, 12); err != nil {
		return err
	}

	for i, s := range series {
		row := make([]any, len(header))
		row[0] = s.Country
		for j, y := range s.Years {
			row[col[y]] = s.Values[j]
		}
		if err := setRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string, width float64) error {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := setRow(f, sheet, 1, row); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("%s column name: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", last, width); err != nil {
		return fmt.Errorf("%s column width: %w", sheet, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

func summaryYears(series []domain.BarSeries) []int {
	lo, hi := 0, 0
	found := false
	for _, s := range series {
		for _, y := range s.Years {
			if !found || y < lo {
				lo = y
			}
			if !found || y > hi {
				hi = y
			}
			found = true
		}
	}
	if !found {
		return nil
	}
	years := make([]int, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		years = append(years, y)
	}
	return years
}
