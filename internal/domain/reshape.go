package domain

import "fmt"

// Reshape converts a wide dataset into its tidy form.
//
// The metadata columns are dropped (each must exist), Country becomes the
// canonical key, and every remaining column must be a year column. The output
// holds exactly len(Rows) × len(year columns) records, emitted column-major.
func Reshape(wide WideTable) (TidyTable, error) {
	drop := make(map[int]bool, len(metadataColumns))
	for _, name := range metadataColumns {
		i := wide.ColumnIndex(name)
		if i < 0 {
			return TidyTable{}, &SchemaError{Dataset: wide.Name, Column: name, Reason: "required metadata column is missing"}
		}
		drop[i] = true
	}

	countryIdx := wide.ColumnIndex(CountryColumn)
	if countryIdx < 0 {
		return TidyTable{}, &SchemaError{Dataset: wide.Name, Column: CountryColumn, Reason: "required column is missing"}
	}

	var (
		yearIdx []int
		years   []int
	)
	for i, h := range wide.Header {
		if drop[i] || i == countryIdx {
			continue
		}
		y, ok := ParseYearColumn(h)
		if !ok {
			return TidyTable{}, &SchemaError{Dataset: wide.Name, Column: h, Reason: fmt.Sprintf("expected %s<yyyy> year column", yearMarker)}
		}
		yearIdx = append(yearIdx, i)
		years = append(years, y)
	}

	for r, row := range wide.Rows {
		if len(row) != len(wide.Header) {
			return TidyTable{}, &SchemaError{
				Dataset: wide.Name,
				Row:     r + 1,
				Reason:  fmt.Sprintf("has %d fields, header has %d", len(row), len(wide.Header)),
			}
		}
	}

	records := make([]TidyRecord, 0, len(wide.Rows)*len(yearIdx))
	for c, col := range yearIdx {
		for r, row := range wide.Rows {
			v, err := parseValue(row[col])
			if err != nil {
				return TidyTable{}, &SchemaError{
					Dataset: wide.Name,
					Column:  wide.Header[col],
					Row:     r + 1,
					Reason:  fmt.Sprintf("invalid temperature change %q", row[col]),
				}
			}
			records = append(records, TidyRecord{
				Country:           row[countryIdx],
				Year:              years[c],
				TemperatureChange: v,
			})
		}
	}

	return TidyTable{Records: records}, nil
}
