// Command validate checks the temperature CSV inputs offline before they are
// deployed with the dashboard. It verifies the wide schema, the reshape
// row-count law, (country, year) completeness, and the map figure's
// one-visible-layer rule.
//
// Usage:
//
//	go run ./cmd/validate -data data/temperature_change.csv -map-data data/temperature_change.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/temperature-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

var iso3Pattern = regexp.MustCompile(`^[A-Z]{3}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", sharedcfg.EnvOrDefault("DATA_PATH", "data/temperature_change.csv"), "bar-chart dataset CSV")
	mapPath := flag.String("map-data", "", "map dataset CSV (defaults to -data)")
	flag.Parse()

	if *mapPath == "" {
		*mapPath = sharedcfg.EnvOrDefault("MAP_DATA_PATH", *dataPath)
	}

	os.Exit(run(*dataPath, *mapPath, os.Stdout))
}

func run(dataPath, mapPath string, out io.Writer) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	fmt.Fprintln(out, "=== Temperature Data Validation ===")
	fmt.Fprintln(out)

	bars, err := csvfile.NewReader(dataPath, logger).Extract(ctx)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load bar-chart dataset: %v\n", err)
		return 1
	}
	maps, err := csvfile.NewReader(mapPath, logger).Extract(ctx)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load map dataset: %v\n", err)
		return 1
	}

	tidy, schema := validateSchema(bars)
	phases := []*phase{schema}
	if schema.passed() {
		phases = append(phases,
			validateRowCount(bars, tidy),
			validateCompleteness(bars, tidy),
		)
	}
	phases = append(phases, validateMap(maps), validateISO3(maps))

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d wide rows, %d tidy records, %d map rows\n",
		len(bars.Rows), len(tidy.Records), len(maps.Rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func validateSchema(wide domain.WideTable) (domain.TidyTable, *phase) {
	p := &phase{name: "Phase 1: Bar-chart schema"}
	tidy, err := domain.Reshape(wide)
	if err != nil {
		p.errorf("%v", err)
	}
	return tidy, p
}

func validateRowCount(wide domain.WideTable, tidy domain.TidyTable) *phase {
	p := &phase{name: "Phase 2: Reshape row count"}
	_, years := domain.YearColumns(wide.Header)
	want := len(wide.Rows) * len(years)
	if len(tidy.Records) != want {
		p.errorf("got %d tidy records, want %d rows × %d years = %d",
			len(tidy.Records), len(wide.Rows), len(years), want)
	}
	return p
}

func validateCompleteness(wide domain.WideTable, tidy domain.TidyTable) *phase {
	p := &phase{name: "Phase 3: Country/year completeness"}
	_, years := domain.YearColumns(wide.Header)

	type key struct {
		country string
		year    int
	}
	seen := make(map[key]int, len(tidy.Records))
	for _, r := range tidy.Records {
		seen[key{r.Country, r.Year}]++
	}

	for _, c := range tidy.Countries() {
		for _, y := range years {
			switch n := seen[key{c, y}]; {
			case n == 0:
				p.errorf("%s %d: missing", c, y)
			case n > 1:
				p.errorf("%s %d: %d rows, values will be summed", c, y, n)
			}
		}
	}
	return p
}

func validateMap(wide domain.WideTable) *phase {
	p := &phase{name: "Phase 4: Map layers and slider"}
	fig, err := domain.BuildChoropleth(wide)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if len(fig.Data) == 0 {
		p.errorf("no year columns, map will be empty")
		return p
	}

	visible := 0
	for _, tr := range fig.Data {
		if tr.Visible {
			visible++
		}
	}
	if visible != 1 {
		p.errorf("%d visible layers, want 1", visible)
	}

	if len(fig.Layout.Sliders) != 1 {
		p.errorf("%d sliders, want 1", len(fig.Layout.Sliders))
		return p
	}
	for i, step := range fig.Layout.Sliders[0].Steps {
		vec := step.Args[0].Visible
		on := 0
		for _, v := range vec {
			if v {
				on++
			}
		}
		if on != 1 || !vec[i] {
			p.errorf("step %s: visibility vector does not select only layer %d", step.Label, i)
		}
	}
	return p
}

func validateISO3(wide domain.WideTable) *phase {
	p := &phase{name: "Phase 5: Map ISO3 codes"}
	idx := wide.ColumnIndex(domain.ISO3Column)
	if idx < 0 {
		p.errorf("column %q missing", domain.ISO3Column)
		return p
	}
	for r, row := range wide.Rows {
		if idx >= len(row) || !iso3Pattern.MatchString(row[idx]) {
			code := ""
			if idx < len(row) {
				code = row[idx]
			}
			p.errorf("row %d: invalid ISO3 code %q", r+1, code)
		}
	}
	return p
}
