package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetadataHeader = []string{
	"ObjectId", "Country", "ISO2", "ISO3", "Indicator", "Unit", "Source",
	"CTS_Code", "CTS_Name", "CTS_Full_Descriptor",
}

func float(v float64) *float64 { return &v }

// wideTable builds a dataset in the IMF layout with the given year columns.
// Each row is a country name followed by one cell per year.
func wideTable(years []string, rows ...[]string) WideTable {
	header := append(append([]string(nil), testMetadataHeader...), years...)
	out := WideTable{Name: "test.csv", Header: header}
	for i, r := range rows {
		row := []string{
			fmt.Sprint(i + 1), r[0], "T" + fmt.Sprint(i), "T" + r[0][:2], "Temperature change", "Degree Celsius",
			"FAO", "ECCS", "Surface Temperature Change", "Environment, Climate Change",
		}
		row = append(row, r[1:]...)
		out.Rows = append(out.Rows, row)
	}
	return out
}

func TestReshape_Testland(t *testing.T) {
	wide := wideTable([]string{"F2000", "F2001"}, []string{"Testland", "1.0", "2.0"})

	tidy, err := Reshape(wide)
	require.NoError(t, err)

	want := []TidyRecord{
		{Country: "Testland", Year: 2000, TemperatureChange: float(1.0)},
		{Country: "Testland", Year: 2001, TemperatureChange: float(2.0)},
	}
	if diff := cmp.Diff(want, tidy.Records); diff != "" {
		t.Errorf("Reshape mismatch (-want +got):\n%s", diff)
	}
}

func TestReshape_Completeness(t *testing.T) {
	years := []string{"F1961", "F1962", "F1963"}
	wide := wideTable(years,
		[]string{"Afghanistan", "-0.113", "", "0.843"},
		[]string{"Albania", "0.627", "0.326", "NA"},
		[]string{"Algeria", "0.164", "0.114", "-0.2"},
	)

	tidy, err := Reshape(wide)
	require.NoError(t, err)

	t.Run("row count law", func(t *testing.T) {
		assert.Len(t, tidy.Records, len(wide.Rows)*len(years))
	})

	t.Run("one record per country and year", func(t *testing.T) {
		countryIdx := wide.ColumnIndex(CountryColumn)
		for _, row := range wide.Rows {
			for _, col := range years {
				year, ok := ParseYearColumn(col)
				require.True(t, ok)
				cell := row[wide.ColumnIndex(col)]

				var matches []TidyRecord
				for _, r := range tidy.Records {
					if r.Country == row[countryIdx] && r.Year == year {
						matches = append(matches, r)
					}
				}
				require.Len(t, matches, 1, "%s %d", row[countryIdx], year)

				want, err := parseValue(cell)
				require.NoError(t, err)
				assert.Equal(t, want, matches[0].TemperatureChange, "%s %d", row[countryIdx], year)
			}
		}
	})

	t.Run("missing values are kept as nil", func(t *testing.T) {
		assert.Equal(t, "Afghanistan", tidy.Records[3].Country)
		assert.Equal(t, 1962, tidy.Records[3].Year)
		assert.Nil(t, tidy.Records[3].TemperatureChange)

		assert.Equal(t, "Albania", tidy.Records[7].Country)
		assert.Equal(t, 1963, tidy.Records[7].Year)
		assert.Nil(t, tidy.Records[7].TemperatureChange)
	})

	t.Run("column-major order", func(t *testing.T) {
		var got []string
		for _, r := range tidy.Records[:4] {
			got = append(got, fmt.Sprintf("%s/%d", r.Country, r.Year))
		}
		assert.Equal(t, []string{"Afghanistan/1961", "Albania/1961", "Algeria/1961", "Afghanistan/1962"}, got)
	})
}

func TestReshape_NoYearColumns(t *testing.T) {
	wide := wideTable(nil, []string{"Testland"})

	tidy, err := Reshape(wide)
	require.NoError(t, err)
	assert.Empty(t, tidy.Records)
}

func TestReshape_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		wide   func() WideTable
		column string
	}{
		{
			name: "missing metadata column",
			wide: func() WideTable {
				w := wideTable([]string{"F2000"}, []string{"Testland", "1.0"})
				w.Header[w.ColumnIndex("CTS_Name")] = "Something"
				return w
			},
			column: "CTS_Name",
		},
		{
			name: "missing country column",
			wide: func() WideTable {
				w := wideTable([]string{"F2000"}, []string{"Testland", "1.0"})
				w.Header[w.ColumnIndex(CountryColumn)] = "Nation"
				return w
			},
			column: CountryColumn,
		},
		{
			name: "unexpected column",
			wide: func() WideTable {
				return wideTable([]string{"F2000", "Notes"}, []string{"Testland", "1.0", "x"})
			},
			column: "Notes",
		},
		{
			name: "unanchored marker",
			wide: func() WideTable {
				return wideTable([]string{"2000F"}, []string{"Testland", "1.0"})
			},
			column: "2000F",
		},
		{
			name: "invalid value",
			wide: func() WideTable {
				return wideTable([]string{"F2000"}, []string{"Testland", "warm"})
			},
			column: "F2000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reshape(tt.wide())
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.column, schemaErr.Column)
			assert.Equal(t, "test.csv", schemaErr.Dataset)
		})
	}
}

func TestReshape_ShortRow(t *testing.T) {
	wide := wideTable([]string{"F2000", "F2001"}, []string{"Testland", "1.0", "2.0"})
	wide.Rows[0] = wide.Rows[0][:len(wide.Rows[0])-1]

	_, err := Reshape(wide)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 1, schemaErr.Row)
	assert.Contains(t, err.Error(), "row 1")
}

func TestParseYearColumn(t *testing.T) {
	tests := []struct {
		name   string
		column string
		year   int
		ok     bool
	}{
		{"marker and four digits", "F1990", 1990, true},
		{"lowest year", "F0001", 1, true},
		{"no marker", "1990", 0, false},
		{"marker in the middle", "19F90", 0, false},
		{"trailing marker", "1990F", 0, false},
		{"three digits", "F199", 0, false},
		{"five digits", "F19900", 0, false},
		{"non digits", "F19x0", 0, false},
		{"country column", "Country", 0, false},
		{"lowercase marker", "f1990", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, ok := ParseYearColumn(tt.column)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestParseValue(t *testing.T) {
	for _, missing := range []string{"", "  ", "NA", "nan", "NaN", "null"} {
		v, err := parseValue(missing)
		require.NoError(t, err, missing)
		assert.Nil(t, v, missing)
	}

	v, err := parseValue(" -0.25 ")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.InDelta(t, -0.25, *v, 1e-9)

	_, err = parseValue("hot")
	assert.Error(t, err)
}

func TestTidyTable_CountriesAndBounds(t *testing.T) {
	table := TidyTable{Records: []TidyRecord{
		{Country: "b", Year: 2001},
		{Country: "B", Year: 1999},
		{Country: "a", Year: 2005},
		{Country: "b", Year: 2000},
	}}

	assert.Equal(t, []string{"B", "a", "b"}, table.Countries())

	lo, hi, ok := table.YearBounds()
	assert.True(t, ok)
	assert.Equal(t, 1999, lo)
	assert.Equal(t, 2005, hi)
	assert.Equal(t, YearRange{From: 1999, To: 2005}, table.FullRange())

	_, _, ok = TidyTable{}.YearBounds()
	assert.False(t, ok)
}
