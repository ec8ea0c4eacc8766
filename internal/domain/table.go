package domain

import "sort"

// WideTable is a CSV dataset as read from disk: one header row followed by
// one row per country.
type WideTable struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t WideTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// TidyRecord is one (country, year) observation. TemperatureChange is nil when
// the source cell was empty.
type TidyRecord struct {
	Country           string   `json:"country"`
	Year              int      `json:"year"`
	TemperatureChange *float64 `json:"temperature_change"`
}

// TidyTable is the long form of a WideTable.
type TidyTable struct {
	Records []TidyRecord
}

// Countries returns the distinct country names, sorted case-sensitively.
func (t TidyTable) Countries() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range t.Records {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	sort.Strings(out)
	return out
}

// YearBounds returns the smallest and largest year in the table. ok is false
// for an empty table.
func (t TidyTable) YearBounds() (lo, hi int, ok bool) {
	if len(t.Records) == 0 {
		return 0, 0, false
	}
	lo, hi = t.Records[0].Year, t.Records[0].Year
	for _, r := range t.Records[1:] {
		if r.Year < lo {
			lo = r.Year
		}
		if r.Year > hi {
			hi = r.Year
		}
	}
	return lo, hi, true
}

// FullRange returns the filter range covering every year in the table.
func (t TidyTable) FullRange() YearRange {
	lo, hi, _ := t.YearBounds()
	return YearRange{From: lo, To: hi}
}
