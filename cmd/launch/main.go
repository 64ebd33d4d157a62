// Command launch asks for a directory of city observation files and mail
// credentials, picks the best launch site and date, writes the report next
// to the input files and mails it.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/launch-site-etl/internal/adapter/fs"
	"github.com/couchcryptid/launch-site-etl/internal/adapter/geocache"
	kafkaadapter "github.com/couchcryptid/launch-site-etl/internal/adapter/kafka"
	"github.com/couchcryptid/launch-site-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/launch-site-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/launch-site-etl/internal/adapter/smtp"
	"github.com/couchcryptid/launch-site-etl/internal/cli"
	"github.com/couchcryptid/launch-site-etl/internal/config"
	"github.com/couchcryptid/launch-site-etl/internal/domain"
	"github.com/couchcryptid/launch-site-etl/internal/observability"
	"github.com/couchcryptid/launch-site-etl/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	answers, err := cli.NewPrompter(os.Stdin, os.Stdout).Collect()
	if err != nil {
		logger.Error("failed to read answers", "error", err)
		return 1
	}

	geocoder, closeGeocoder, err := newGeocoder(cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to set up geocoding", "error", err)
		return 1
	}
	defer closeGeocoder()

	var notifiers []pipeline.Notifier
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		notifiers = append(notifiers, publisher)
		logger.Info("decision publishing enabled", "topic", cfg.KafkaTopic)
	}
	notifiers = append(notifiers, smtp.NewMailer(smtp.Settings{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Timeout:  cfg.SMTPTimeout,
		Sender:   answers.Sender,
		Password: answers.Password,
		Receiver: answers.Receiver,
	}, logger))

	dir := fs.NewDirectory(answers.Directory)
	analyzer := pipeline.NewAnalyzer(domain.DefaultPolicy(), geocoder, logger)
	p := pipeline.New(dir, analyzer, dir, logger, metrics, pipeline.Options{
		MaxParallel: cfg.MaxParallelFiles,
		SkipInvalid: cfg.SkipInvalidFiles,
	}, notifiers...)

	res, runErr := p.Run(ctx)
	code := printOutcome(os.Stdout, res, runErr)
	if runErr != nil {
		logger.Error("run failed", "run_id", res.RunID, "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if cfg.PushgatewayURL != "" {
		if err := observability.Push(shutdownCtx, cfg.PushgatewayURL, res.RunID, registry); err != nil {
			logger.Error("metrics push failed", "error", err)
		}
	}

	return code
}

// printOutcome writes the user-facing result lines and returns the exit code.
func printOutcome(w io.Writer, res pipeline.Result, runErr error) int {
	if runErr != nil {
		fmt.Fprintln(w, runErr.Error())
		return 1
	}
	for _, f := range res.Skipped {
		fmt.Fprintf(w, "Skipped %s: %v\n", f.Path, f.Err)
	}
	if !res.Found {
		fmt.Fprintln(w, "No result found.")
		return 0
	}

	d, ok := res.Delivery("email")
	switch {
	case !ok:
		return 0
	case d.Err != nil:
		fmt.Fprintln(w, d.Err.Error())
		return 1
	default:
		fmt.Fprintln(w, "Email sent successfully.")
		return 0
	}
}

// newGeocoder builds the configured provider behind a cache. The returned
// func releases cache connections.
func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Geocoder, func(), error) {
	var inner domain.Geocoder
	switch cfg.Geocoder {
	case config.GeocoderNone:
		logger.Info("geocoding disabled")
		return nil, func() {}, nil
	case config.GeocoderMapbox:
		inner = mapbox.NewClient(cfg.MapboxToken, cfg.GeocodeTimeout, metrics, logger)
	default:
		inner = nominatim.NewClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.NominatimRateLimit, cfg.GeocodeTimeout, metrics, logger)
	}

	if cfg.MemcacheAddrs != "" {
		store := geocache.NewMemcachedStore(cfg.MemcacheAddrs, cfg.MemcacheTTL, cfg.GeocodeTimeout)
		if err := store.Ping(); err != nil {
			logger.Warn("memcached unreachable, lookups go to the provider", "addrs", cfg.MemcacheAddrs, "error", err)
		}
		logger.Info("geocoding enabled", "provider", cfg.Geocoder, "cache", "memcached")
		return geocache.NewCachedGeocoder(inner, store, metrics, logger), func() {
			if err := store.Close(); err != nil {
				logger.Warn("memcached close error", "error", err)
			}
		}, nil
	}

	store, err := geocache.NewLRUStore(cfg.GeocodeCacheSize)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("geocoding enabled", "provider", cfg.Geocoder, "cache", "lru", "cache_size", cfg.GeocodeCacheSize)
	return geocache.NewCachedGeocoder(inner, store, metrics, logger), func() {}, nil
}
