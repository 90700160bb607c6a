// Command validate loads the viewer's data sources exactly as artccmap does
// and reports on their integrity: join coverage between the attribute table
// and the region boundaries, duplicate keys, unparseable cells, and the
// quantile breakpoints and axis range each attribute will render with.
//
// Configuration comes from the same environment variables as the viewer.
// Logs go to stderr unless LOG_FILE is set.
//
// Usage:
//
//	ATTRIBUTE_SOURCE=data/ARTCCData.csv REGION_SOURCE=data/ARTCCs.geojson \
//	  go run ./cmd/validate
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/artcc-atlas/internal/adapter/source"
	"github.com/couchcryptid/artcc-atlas/internal/config"
	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/loader"
	"github.com/couchcryptid/artcc-atlas/internal/observability"
)

// phase tracks pass/fail for a validation phase. Warnings are reported but do
// not fail the run.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	if _, ok := os.LookupEnv("LOG_FILE"); !ok {
		_ = os.Setenv("LOG_FILE", observability.StderrLogFile)
	}
	if code := run(context.Background()); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetricsForTesting()

	fmt.Println("=== ARTCC Data Integrity Validation ===")
	fmt.Println()

	ld := loader.New(source.NewFetcher(cfg.LoadTimeout, logger), cfg.LoadTimeout, logger, metrics)
	ds, err := ld.Load(ctx, loader.Sources{
		Attributes: cfg.AttributeSource,
		Regions:    cfg.RegionSource,
		Overlays:   cfg.OverlaySources,
		Points:     cfg.PointSource,
	}, loader.Layout{
		Attributes:      cfg.Attributes,
		KeyField:        cfg.KeyField,
		NameField:       cfg.NameField,
		ExternalIDField: cfg.ExternalIDField,
		PointNameField:  cfg.PointNameField,
	})
	if err != nil {
		var le *domain.LoadError
		if errors.As(err, &le) {
			fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", le.Source, le.Err)
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		}
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateJoinCoverage(ds),
		validateKeys(ds),
		validateValues(ds),
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		} else if len(p.warnings) > 0 {
			status = fmt.Sprintf("\033[33mPASS (%d warnings)\033[0m", len(p.warnings))
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d attribute rows, %d regions, %d overlay layers, %d landmarks\n",
		ds.Table.Len(), ds.Regions.Len(), len(ds.Overlays), len(ds.Landmarks))

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.warnings) == 0 {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		for _, w := range p.warnings {
			fmt.Printf("  (warn) %s\n", w)
		}
	}

	fmt.Println()
	printScales(ds, cfg.ClassCount)

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: join coverage ──

func validateJoinCoverage(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 1: Join Coverage"}
	rep := ds.Report
	for _, key := range rep.Unmatched {
		p.warnf("region %s has no attribute row; it renders as no data", key)
	}
	for _, key := range rep.Orphans {
		p.warnf("attribute row %s has no region; it appears only in the chart", key)
	}
	if len(rep.Matched) == 0 {
		p.errorf("no region matched any attribute row (check KEY_FIELD)")
	}
	return p
}

// ── Phase 2: attribute keys ──

func validateKeys(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 2: Attribute Keys (uniqueness)"}
	keys := make([]string, 0, len(ds.Report.Duplicates))
	for key := range ds.Report.Duplicates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		p.errorf("key %s appears %d times; the last row wins", key, ds.Report.Duplicates[key])
	}
	return p
}

// ── Phase 3: attribute values ──

func validateValues(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Attribute Values (parsing)"}
	for _, f := range ds.Report.ParseFailures {
		p.warnf("%s / %s: %q is not a number", f.Key, f.Attribute, f.Raw)
	}
	for _, attr := range ds.Table.Attributes() {
		defined := 0
		for _, v := range ds.Table.Values(attr) {
			if !domain.IsMissing(v) {
				defined++
			}
		}
		if defined == 0 {
			p.warnf("%s has no numeric values; every region renders as no data", attr)
		}
	}
	return p
}

func printScales(ds *domain.Dataset, classes int) {
	fmt.Println("Classification:")
	for _, attr := range ds.Table.Attributes() {
		scale := domain.BuildScale(ds.Table.Rows(), attr, classes)
		axis := domain.ComputeAxisRange(ds.Table.Values(attr), domain.DefaultAxisPolicy())
		breaks := make([]string, len(scale.Thresholds()))
		for i, t := range scale.Thresholds() {
			breaks[i] = fmt.Sprintf("%.4g", t)
		}
		fmt.Printf("  %-40s n=%-3d breaks=[%s] axis=[%g, %g]\n",
			attr, scale.Defined(), strings.Join(breaks, " "), axis.Lower, axis.Upper)
	}
}
