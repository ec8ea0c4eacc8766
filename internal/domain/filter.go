package domain

// DefaultCountry is shown when the country selection is empty or malformed.
const DefaultCountry = "United States"

// YearRange is an inclusive range of years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// FilterState is the current selection of the dashboard controls.
type FilterState struct {
	Countries []string
	Years     YearRange
}

// NormalizeCountries turns a raw control value into a non-empty country list.
// Empty names are dropped. Anything other than a list of strings with at least
// one non-empty name falls back to the single fallback country. Both []string
// and JSON-decoded []any are accepted.
func NormalizeCountries(v any, fallback string) []string {
	var out []string
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return []string{fallback}
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return []string{fallback}
	}
	return out
}

// Filter returns the records whose year lies in the selected range and whose
// country is selected, in table order.
func Filter(table TidyTable, state FilterState) []TidyRecord {
	selected := make(map[string]bool, len(state.Countries))
	for _, c := range state.Countries {
		selected[c] = true
	}

	out := make([]TidyRecord, 0)
	for _, r := range table.Records {
		if !state.Years.Contains(r.Year) || !selected[r.Country] {
			continue
		}
		out = append(out, r)
	}
	return out
}
