// Command validate checks every observation file in a directory without
// geocoding or sending mail. It reports schema and parse failures per file
// and each city's best launch day, and exits non-zero if any file is invalid.
//
// Usage:
//
//	go run ./cmd/validate -dir data/cities
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/launch-site-etl/internal/adapter/fs"
	"github.com/couchcryptid/launch-site-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// cityCheck is the outcome for one file.
type cityCheck struct {
	path string
	city string
	days []domain.DayRecord
	best domain.DayRecord
	ok   bool
}

func main() {
	dir := flag.String("dir", "", "directory containing city observation files")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(context.Background(), *dir, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, dir string, w io.Writer) int {
	fmt.Fprintln(w, "=== Launch Data Validation ===")
	fmt.Fprintln(w)

	src := fs.NewDirectory(dir)
	paths, err := src.List(ctx)
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}

	parser := domain.NewParser(domain.DefaultPolicy())
	files := &phase{name: "Schema and parse"}
	checks := make([]cityCheck, 0, len(paths))
	for _, path := range paths {
		text, err := src.Read(ctx, path)
		if err != nil {
			files.errorf("%s: %v", path, err)
			continue
		}
		days, err := parser.Parse(text)
		if err != nil {
			files.errorf("%s: %v", path, err)
			continue
		}
		c := cityCheck{path: path, city: domain.CityFromPath(path), days: days}
		c.best, c.ok = domain.SelectLaunchDay(days)
		checks = append(checks, c)
	}

	phases := []*phase{
		files,
		validateDayOrder(checks),
		validateCityNames(checks),
	}

	for _, c := range checks {
		if c.ok {
			fmt.Fprintf(w, "  %-24s day %2d  wind %2d  humidity %2d\n", c.city, c.best.Day, c.best.Wind, c.best.Humidity)
		} else {
			fmt.Fprintf(w, "  %-24s no launch day\n", c.city)
		}
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Files: %d listed, %d valid, %d with a launch day\n", len(paths), len(checks), countLaunchable(checks))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  %d. %s\n", i+1, e)
		}
	}

	if !allPassed {
		return 1
	}
	return 0
}

// validateDayOrder flags files whose day row is not 1..DaysInPeriod. The
// parser accepts any integers there, so this is a data quality check only.
func validateDayOrder(checks []cityCheck) *phase {
	p := &phase{name: "Day numbering"}
	for _, c := range checks {
		for i, d := range c.days {
			if d.Day != i+1 {
				p.errorf("%s: column %d has day %d, want %d", c.path, i+1, d.Day, i+1)
				break
			}
		}
	}
	return p
}

// validateCityNames flags empty and duplicate city names, which would make
// the geocoder lookups ambiguous.
func validateCityNames(checks []cityCheck) *phase {
	p := &phase{name: "City names"}
	seen := make(map[string]string, len(checks))
	for _, c := range checks {
		if c.city == "" {
			p.errorf("%s: empty city name", c.path)
			continue
		}
		if prev, dup := seen[c.city]; dup {
			p.errorf("%s: city %q already defined by %s", c.path, c.city, prev)
			continue
		}
		seen[c.city] = c.path
	}
	return p
}

func countLaunchable(checks []cityCheck) int {
	n := 0
	for _, c := range checks {
		if c.ok {
			n++
		}
	}
	return n
}
