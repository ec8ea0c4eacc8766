package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// CountryColumn identifies the country in the wide layout.
	CountryColumn = "Country"
	// ISO3Column holds the ISO 3166-1 alpha-3 code used as the map location.
	ISO3Column = "ISO3"
	// CountryKey is the canonical country field after reshaping.
	CountryKey = "country"

	// yearMarker prefixes every year column, e.g. "F1990".
	yearMarker = "F"
)

// metadataColumns are dropped before reshaping. All of them must be present.
var metadataColumns = []string{
	"ObjectId",
	"ISO2",
	"ISO3",
	"Indicator",
	"Unit",
	"Source",
	"CTS_Code",
	"CTS_Name",
	"CTS_Full_Descriptor",
}

// MetadataColumns returns a copy of the column names dropped before reshaping.
func MetadataColumns() []string {
	return append([]string(nil), metadataColumns...)
}

// SchemaError reports a dataset whose columns or cells do not match the
// expected layout.
type SchemaError struct {
	Dataset string
	Column  string
	Row     int // 1-based data row; 0 when the problem is in the header
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("schema error in %s: row %d column %q: %s", e.Dataset, e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("schema error in %s: column %q: %s", e.Dataset, e.Column, e.Reason)
}

// ParseYearColumn extracts the year from a column name of the form "F<yyyy>".
// The marker must be the first character and exactly four digits must follow.
func ParseYearColumn(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, yearMarker)
	if !ok || len(digits) != 4 {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return year, true
}

// YearColumns returns the positions and years of every "F<yyyy>" column, in
// header order.
func YearColumns(header []string) (idx []int, years []int) {
	for i, h := range header {
		if y, ok := ParseYearColumn(h); ok {
			idx = append(idx, i)
			years = append(years, y)
		}
	}
	return idx, years
}

// parseValue converts a cell to a temperature change. Empty and NA-style cells
// are missing values.
func parseValue(cell string) (*float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "na", "nan", "null", "n/a":
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
