// Command genmock writes deterministic sample observation files, one per
// city, in the format the launch program reads. The same seed always
// produces the same files.
//
// Usage:
//
//	go run ./cmd/genmock -out data/cities -seed 42 -cities Sofia,Kourou,Tokyo
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
)

var defaultCities = []string{"Sofia", "Kourou", "Baikonur", "Tanegashima", "CapeCanaveral", "Plesetsk", "Sriharikota"}

var cloudTypes = []string{
	domain.CloudsCirrus,
	domain.CloudsStratus,
	domain.CloudsCumulus,
	domain.CloudsNimbus,
	domain.CloudsCumulonimbus,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for the generated city files")
	seed := flag.Uint64("seed", 1, "random seed")
	cities := flag.String("cities", strings.Join(defaultCities, ","), "comma-separated city names")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	names := splitCities(*cities)
	if len(names) == 0 {
		return fmt.Errorf("no cities given")
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	for _, name := range names {
		days := generateDays(rng)
		path := filepath.Join(*out, name+".csv")
		if err := os.WriteFile(path, []byte(domain.RenderDays(days)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printSummary(name, days)
	}

	log.Printf("total: %d files in %s", len(names), *out)
	return nil
}

func splitCities(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// generateDays draws a period of weather where roughly a third of the days
// can pass the launch conditions.
func generateDays(rng *rand.Rand) []domain.DayRecord {
	days := make([]domain.DayRecord, domain.DaysInPeriod)
	for i := range days {
		lightning := domain.LightningNo
		if rng.IntN(5) == 0 {
			lightning = domain.LightningYes
		}
		precipitation := 0
		if rng.IntN(3) == 0 {
			precipitation = rng.IntN(90) + 1
		}
		days[i] = domain.DayRecord{
			Day:           i + 1,
			Temperature:   rng.IntN(40) - 2,
			Wind:          rng.IntN(16),
			Humidity:      rng.IntN(70) + 20,
			Precipitation: precipitation,
			Lightning:     lightning,
			Clouds:        cloudTypes[rng.IntN(len(cloudTypes))],
		}
	}
	return days
}

func printSummary(city string, days []domain.DayRecord) {
	launchable := 0
	for _, d := range days {
		if domain.IsLaunchDay(d) {
			launchable++
		}
	}
	best, ok := domain.SelectLaunchDay(days)
	if !ok {
		log.Printf("%s: no launch day", city)
		return
	}
	log.Printf("%s: %d launch days, best day %d (wind %d, humidity %d)", city, launchable, best.Day, best.Wind, best.Humidity)
}
