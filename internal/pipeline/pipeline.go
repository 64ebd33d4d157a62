package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
	"github.com/couchcryptid/launch-site-etl/internal/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Source lists the input files of a run and reads their contents.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, path string) (string, error)
}

// ReportWriter persists the report line and returns where it was written.
type ReportWriter interface {
	WriteReport(ctx context.Context, content string) (string, error)
}

// Notifier delivers a decision to one channel.
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, d domain.Decision) error
}

// Options tune how a run treats its files.
type Options struct {
	// MaxParallel bounds how many cities are analyzed at once. Values below 1
	// mean sequential processing.
	MaxParallel int

	// SkipInvalid drops a file that fails to read or parse instead of
	// aborting the run.
	SkipInvalid bool
}

// FileError ties a read, schema or parse failure to the file it came from.
type FileError struct {
	Path string
	City string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Delivery is the outcome of one notifier.
type Delivery struct {
	Channel string
	Err     error
}

// Result describes a finished run. Found is false when no city had a launch
// day; that is a normal outcome and Decision is then the zero value.
type Result struct {
	RunID      string
	Files      int
	Skipped    []*FileError
	Candidates []domain.Candidate
	Found      bool
	Decision   domain.Decision
	Deliveries []Delivery

	// NotifyErr joins the failures of all notifiers. The report file stays
	// in place when it is set.
	NotifyErr error
}

// Delivery returns the outcome recorded for channel.
func (r Result) Delivery(channel string) (Delivery, bool) {
	for _, d := range r.Deliveries {
		if d.Channel == channel {
			return d, true
		}
	}
	return Delivery{}, false
}

// Pipeline runs one analysis: list the files, analyze every city, pick the
// winner, write the report and notify.
type Pipeline struct {
	source    Source
	analyzer  Analyzer
	report    ReportWriter
	notifiers []Notifier
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options
}

// New creates a Pipeline. Notifiers are called in the order given.
func New(source Source, analyzer Analyzer, report ReportWriter, logger *slog.Logger, metrics *observability.Metrics, opts Options, notifiers ...Notifier) *Pipeline {
	if opts.MaxParallel < 1 {
		opts.MaxParallel = 1
	}
	return &Pipeline{
		source:    source,
		analyzer:  analyzer,
		report:    report,
		notifiers: notifiers,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

type cityOutcome struct {
	candidate domain.Candidate
	found     bool
	skipped   *FileError
}

// Run executes the analysis once. An error means the run was aborted before
// a report could be written; notifier failures are reported in the Result.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	defer func() { p.metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	res := Result{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", res.RunID)

	paths, err := p.source.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list input files: %w", err)
	}
	res.Files = len(paths)
	logger.Info("run started", "files", len(paths), "max_parallel", p.opts.MaxParallel)

	outcomes, err := p.analyzeAll(ctx, logger, paths)
	if err != nil {
		return res, err
	}
	for _, o := range outcomes {
		switch {
		case o.skipped != nil:
			res.Skipped = append(res.Skipped, o.skipped)
		case o.found:
			res.Candidates = append(res.Candidates, o.candidate)
		}
	}

	winner, ok := domain.SelectCity(res.Candidates)
	if !ok {
		logger.Info("no city has a launch day", "files", res.Files, "skipped", len(res.Skipped))
		return res, nil
	}
	if winner.Resolved() {
		p.metrics.WinnerLatitude.Set(winner.Latitude)
	}

	reportPath, err := p.report.WriteReport(ctx, domain.FormatReport(winner))
	if err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}

	res.Found = true
	res.Decision = domain.NewDecision(res.RunID, winner, reportPath, res.Files, len(res.Candidates))
	logger.Info("launch site selected",
		"city", winner.Location,
		"day", winner.Day.Day,
		"lat", winner.Latitude,
		"report", reportPath,
	)

	res.Deliveries, res.NotifyErr = p.notify(ctx, logger, res.Decision)
	return res, nil
}

// analyzeAll fans the files out to the analyzer and returns one outcome per
// path, in path order, regardless of completion order.
func (p *Pipeline) analyzeAll(ctx context.Context, logger *slog.Logger, paths []string) ([]cityOutcome, error) {
	outcomes := make([]cityOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxParallel)
	for i, path := range paths {
		g.Go(func() error {
			out, err := p.analyzeFile(gctx, logger, path)
			if err != nil {
				var fe *FileError
				if p.opts.SkipInvalid && errors.As(err, &fe) {
					logger.Warn("skipping invalid file", "city", fe.City, "path", fe.Path, "error", fe.Err)
					outcomes[i] = cityOutcome{skipped: fe}
					return nil
				}
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (p *Pipeline) analyzeFile(ctx context.Context, logger *slog.Logger, path string) (cityOutcome, error) {
	city := domain.CityFromPath(path)

	text, err := p.source.Read(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return cityOutcome{}, ctxErr
		}
		p.metrics.FileErrors.WithLabelValues("read").Inc()
		return cityOutcome{}, &FileError{Path: path, City: city, Err: err}
	}

	candidate, found, err := p.analyzer.Analyze(ctx, city, text)
	if err != nil {
		kind := errorKind(err)
		if kind == "" {
			return cityOutcome{}, fmt.Errorf("%s: %w", path, err)
		}
		p.metrics.FileErrors.WithLabelValues(kind).Inc()
		return cityOutcome{}, &FileError{Path: path, City: city, Err: err}
	}
	p.metrics.FilesProcessed.Inc()

	if !found {
		p.metrics.CitiesWithoutCandidate.Inc()
		logger.Debug("no launch day", "city", city)
		return cityOutcome{}, nil
	}

	p.metrics.Candidates.Inc()
	logger.Debug("candidate selected",
		"city", city,
		"day", candidate.Day.Day,
		"wind", candidate.Day.Wind,
		"humidity", candidate.Day.Humidity,
		"lat", candidate.Latitude,
	)
	return cityOutcome{candidate: candidate, found: true}, nil
}

// errorKind classifies file-level failures for metrics. Anything else, such
// as a geocoder transport error, returns "".
func errorKind(err error) string {
	var schemaErr *domain.SchemaError
	var parseErr *domain.ParseError
	switch {
	case errors.As(err, &schemaErr):
		return "schema"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return ""
	}
}

func (p *Pipeline) notify(ctx context.Context, logger *slog.Logger, d domain.Decision) ([]Delivery, error) {
	deliveries := make([]Delivery, 0, len(p.notifiers))
	var errs []error
	for _, n := range p.notifiers {
		channel := n.Channel()
		err := n.Notify(ctx, d)
		deliveries = append(deliveries, Delivery{Channel: channel, Err: err})
		if err != nil {
			p.metrics.Notifications.WithLabelValues(channel, "error").Inc()
			logger.Error("notification failed", "channel", channel, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
			continue
		}
		p.metrics.Notifications.WithLabelValues(channel, "success").Inc()
	}
	return deliveries, errors.Join(errs...)
}
