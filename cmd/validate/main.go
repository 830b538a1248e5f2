// Command validate performs data integrity checks on a Met Office station
// file: it must parse, months must run without gaps or repeats, values must be
// physically plausible, Provisional rows may only trail the series, and
// grouping must account for every row.
//
// Usage:
//
//	go run ./cmd/validate -file ~/heathrowdata.txt -group-by year
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/heathrow-climate/internal/adapter/metoffice"
	"github.com/couchcryptid/heathrow-climate/internal/domain"
	"github.com/couchcryptid/heathrow-climate/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to the station file")
	groupBy := flag.String("group-by", domain.ByYear.Name, "group key to check: year, month or decade")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(pipeline.ExitFailure)
	}
	key, err := domain.ParseGroupKey(*groupBy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(pipeline.ExitFailure)
	}

	os.Exit(run(os.Stdout, *file, key))
}

func run(out io.Writer, path string, key domain.GroupKey) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	fmt.Fprintln(out, "=== Station File Integrity Validation ===")
	fmt.Fprintln(out)

	obs, source, err := metoffice.NewReader(path, logger).Read(ctx)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load %s: %v\n", path, err)
		return pipeline.ExitCode(err)
	}
	table, err := domain.NewTable(obs, source)
	if err != nil {
		fmt.Fprintf(out, "FATAL: build table: %v\n", err)
		return pipeline.ExitFailure
	}

	phases := []*phase{
		validateContinuity(obs),
		validateRanges(obs),
		validateProvisional(obs),
		validateMissing(table),
		validateGrouping(ctx, table, key),
	}

	fmt.Fprintln(out)
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
	fmt.Fprintf(out, "Rows: %d (%d-%02d to %d-%02d)\n",
		len(obs), obs[0].Year, obs[0].Month, obs[len(obs)-1].Year, obs[len(obs)-1].Month)

	for _, p := range phases {
		if len(p.notes) == 0 && p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for _, n := range p.notes {
			fmt.Fprintf(out, "  Note: %s\n", n)
		}
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return pipeline.ExitOK
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return pipeline.ExitFailure
}

// ── Phase 1: Calendar continuity ──

func validateContinuity(obs []domain.Observation) *phase {
	p := &phase{name: "Phase 1: Calendar continuity"}
	for i := 1; i < len(obs); i++ {
		prev, cur := obs[i-1], obs[i]
		want := prev.Period().AddDate(0, 1, 0)
		got := cur.Period()
		switch {
		case got.Equal(want):
		case !got.After(prev.Period()):
			p.errorf("line %d: %d-%02d does not follow %d-%02d", cur.Line, cur.Year, cur.Month, prev.Year, prev.Month)
		default:
			months := (got.Year()-want.Year())*12 + int(got.Month()) - int(want.Month())
			p.notef("line %d: %d month(s) absent before %d-%02d", cur.Line, months, cur.Year, cur.Month)
		}
	}
	return p
}

// ── Phase 2: Value ranges ──

func validateRanges(obs []domain.Observation) *phase {
	p := &phase{name: "Phase 2: Value ranges"}
	for _, o := range obs {
		if !math.IsNaN(o.TMax) && !math.IsNaN(o.TMin) && o.TMax < o.TMin {
			p.errorf("line %d: tmax %.1f below tmin %.1f", o.Line, o.TMax, o.TMin)
		}
		if outside(o.AirFrost, 0, 31) {
			p.errorf("line %d: af %.0f outside 0..31 days", o.Line, o.AirFrost)
		}
		if outside(o.Rain, 0, 1000) {
			p.errorf("line %d: rain %.1f outside 0..1000 mm", o.Line, o.Rain)
		}
		if outside(o.Sun, 0, 24*31) {
			p.errorf("line %d: sun %.1f outside 0..744 hours", o.Line, o.Sun)
		}
	}
	return p
}

func outside(v, lo, hi float64) bool {
	return !math.IsNaN(v) && (v < lo || v > hi)
}

// ── Phase 3: Provisional tail ──

func validateProvisional(obs []domain.Observation) *phase {
	p := &phase{name: "Phase 3: Provisional rows trail the series"}
	seen := false
	count := 0
	for _, o := range obs {
		switch {
		case o.Provisional:
			seen = true
			count++
		case seen:
			p.errorf("line %d: final row after Provisional rows", o.Line)
		}
	}
	if count > 0 {
		p.notef("%d provisional row(s)", count)
	}
	return p
}

// ── Phase 4: Missing values ──
// Informational: gaps are legal, but worth knowing about before plotting.

func validateMissing(table domain.Table) *phase {
	p := &phase{name: "Phase 4: Missing values"}
	for _, c := range domain.MeasurementColumns() {
		n, err := table.MissingCount(c.Name)
		if err != nil {
			p.errorf("%s: %v", c.Name, err)
			continue
		}
		if n == table.Len() {
			p.errorf("%s: every value missing", c.Name)
			continue
		}
		if n > 0 {
			p.notef("%s: %d of %d missing", c.Name, n, table.Len())
		}
	}
	return p
}

// ── Phase 5: Grouping ──
// Every row must land in exactly one group.

func validateGrouping(ctx context.Context, table domain.Table, key domain.GroupKey) *phase {
	p := &phase{name: fmt.Sprintf("Phase 5: Grouping by %s", key.Name)}

	aggs := []domain.ColumnAggregation{{Column: domain.ColTMax, Agg: domain.AggMax}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	grouped, err := pipeline.NewTransformer(key, aggs, logger).Transform(ctx, table)
	if err != nil {
		p.errorf("transform: %v", err)
		return p
	}

	total := 0
	for i, k := range grouped.Keys {
		if i > 0 && k <= grouped.Keys[i-1] {
			p.errorf("keys out of order: %d after %d", k, grouped.Keys[i-1])
		}
		n := table.FilterKey(key, k).Len()
		if n == 0 {
			p.errorf("%s %s: no rows", key.Name, key.Label(k))
		}
		total += n
	}
	if total != table.Len() {
		p.errorf("groups hold %d rows, table has %d", total, table.Len())
	}
	p.notef("%d groups", grouped.Len())
	return p
}
