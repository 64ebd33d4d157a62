package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/launch-site-etl/internal/adapter/fs"
	"github.com/couchcryptid/launch-site-etl/internal/domain"
	"github.com/couchcryptid/launch-site-etl/internal/observability"
	"github.com/couchcryptid/launch-site-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCityAnalyzer_Analyze(t *testing.T) {
	geo := &mockGeocoder{lat: map[string]float64{"Sofia": 42.69}}
	a := pipeline.NewAnalyzer(domain.DefaultPolicy(), geo, discardLogger())

	c, ok, err := a.Analyze(context.Background(), "Sofia", domain.RenderDays(calmDays(5, 40)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sofia", c.Location)
	assert.Equal(t, 42.69, c.Latitude)
	assert.Equal(t, 10, c.Day.Day)
}

func TestCityAnalyzer_NilGeocoder(t *testing.T) {
	a := pipeline.NewAnalyzer(domain.DefaultPolicy(), nil, discardLogger())

	c, ok, err := a.Analyze(context.Background(), "Sofia", domain.RenderDays(calmDays(5, 40)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, c.Resolved())
}

func TestCityAnalyzer_NoLaunchDay(t *testing.T) {
	geo := &mockGeocoder{}
	a := pipeline.NewAnalyzer(domain.DefaultPolicy(), geo, discardLogger())

	_, ok, err := a.Analyze(context.Background(), "Tokyo", domain.RenderDays(rainyDays()))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, geo.calls.Load())
}

func TestCityAnalyzer_StrictPolicy(t *testing.T) {
	strict := domain.NewPolicy([]string{domain.LightningNo}, []string{domain.CloudsCirrus})
	a := pipeline.NewAnalyzer(strict, nil, discardLogger())

	_, _, err := a.Analyze(context.Background(), "Sofia", domain.RenderDays(calmDays(5, 40)))

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, domain.FieldClouds, parseErr.Field)
	assert.ErrorIs(t, err, domain.ErrValueNotAllowed)
}

// writeCity stores records as dir/<name>.csv.
func writeCity(t *testing.T, dir, name string, records []domain.DayRecord) {
	t.Helper()
	path := filepath.Join(dir, name+".csv")
	require.NoError(t, os.WriteFile(path, []byte(domain.RenderDays(records)), 0o644))
}

func TestPipeline_Directory_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	sofia := rainyDays()
	sofia[9] = domain.DayRecord{
		Day: 10, Temperature: 20, Wind: 5, Humidity: 40,
		Precipitation: 0, Lightning: domain.LightningNo, Clouds: domain.CloudsStratus,
	}
	writeCity(t, dir, "Sofia", sofia)
	writeCity(t, dir, "Tokyo", rainyDays())
	writeCity(t, dir, "Oslo", rainyDays())

	src := fs.NewDirectory(dir)
	geo := &mockGeocoder{lat: map[string]float64{"Sofia": 42.69, "Tokyo": 35.68, "Oslo": 59.91}}
	analyzer := pipeline.NewAnalyzer(domain.DefaultPolicy(), geo, discardLogger())
	mail := &mockNotifier{channel: "email"}

	p := pipeline.New(src, analyzer, src, discardLogger(), observability.NewMetricsForTesting(),
		pipeline.Options{MaxParallel: 2}, mail)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Found)

	content, err := os.ReadFile(filepath.Join(dir, fs.ReportFileName))
	require.NoError(t, err)
	assert.Equal(t, "Sofia, 10 July", string(content))
	assert.Equal(t, src.ReportPath(), res.Decision.ReportPath)
	require.Len(t, mail.received, 1)

	// The report file is not read back as a city on the next run.
	res, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, "Sofia, 10 July", res.Decision.Report)
}
