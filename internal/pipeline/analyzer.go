package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
)

// Analyzer turns one city's file contents into its launch candidate.
type Analyzer interface {
	Analyze(ctx context.Context, city, text string) (domain.Candidate, bool, error)
}

// CityAnalyzer implements Analyzer using the domain parser and selectors
// with geocoding of the selected day's city.
type CityAnalyzer struct {
	parser   *domain.Parser
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewAnalyzer creates a CityAnalyzer. Pass a nil geocoder to skip lookups;
// every candidate then carries domain.NotFoundLatitude.
func NewAnalyzer(policy domain.Policy, geocoder domain.Geocoder, logger *slog.Logger) *CityAnalyzer {
	return &CityAnalyzer{
		parser:   domain.NewParser(policy),
		geocoder: geocoder,
		logger:   logger,
	}
}

// Analyze parses text, picks the city's best launch day and resolves the
// city's latitude. It reports false when no day qualifies; the geocoder is
// not called in that case.
func (a *CityAnalyzer) Analyze(ctx context.Context, city, text string) (domain.Candidate, bool, error) {
	days, err := a.parser.Parse(text)
	if err != nil {
		return domain.Candidate{}, false, err
	}

	day, ok := domain.SelectLaunchDay(days)
	if !ok {
		return domain.Candidate{}, false, nil
	}

	lat, err := domain.LookupLatitude(ctx, a.geocoder, city, a.logger)
	if err != nil {
		return domain.Candidate{}, false, err
	}
	return domain.NewCandidate(day, city, lat), true, nil
}
