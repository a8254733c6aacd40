package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
	"github.com/KasumiMercury/sleepwellbaby/internal/infra/predictionrecorder"
	"github.com/KasumiMercury/sleepwellbaby/internal/model"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/logging"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/batch"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/decision"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/eligibility"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/features"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/predict"
)

// Version is set via ldflags at build time
var Version = "dev"

type options struct {
	in                string
	out               string
	modelDir          string
	every             time.Duration
	freq              string
	birthDate         string
	gestation         int
	missingThreshold  float64
	computeReferences bool
	parallel          bool
	logLevel          string
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	flag.StringVar(&opts.in, "in", "", "input CSV with datetime,HR,RESP,SpO2 columns (required)")
	flag.StringVar(&opts.out, "out", "", "output CSV (default stdout)")
	flag.StringVar(&opts.modelDir, "model-dir", "models", "directory holding classifier.json and support.json")
	flag.DurationVar(&opts.every, "every", 30*time.Second, "spacing between prediction targets")
	flag.StringVar(&opts.freq, "freq", string(batch.Frequency1Hz), "sampling frequency of the input: 1s or 2.5s")
	flag.StringVar(&opts.birthDate, "birth-date", "", "birth date YYYY-MM-DD (default observation date)")
	flag.IntVar(&opts.gestation, "gestation", batch.DefaultGestationPeriod, "gestation period in days")
	flag.Float64Var(&opts.missingThreshold, "missing-threshold", batch.DefaultMissingIndexThreshold, "largest tolerated fraction of missing window timestamps")
	flag.BoolVar(&opts.computeReferences, "compute-references", false, "compute 2h/24h reference columns from the signals")
	flag.BoolVar(&opts.parallel, "parallel", false, "extract feature windows concurrently")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flag.Parse()

	slog.SetDefault(logging.NewLogger(logging.Config{
		Service: logging.ServiceInfo{
			Name:    "sleepwellbaby-batch",
			Version: Version,
		},
		Environment:   logging.EnvDev,
		Level:         logging.ParseLevel(opts.logLevel),
		DefaultModule: logging.Module("batch"),
		Output:        os.Stderr,
	}))

	if opts.in == "" {
		fmt.Fprintln(os.Stderr, "-in is required")
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, opts); err != nil {
		slog.ErrorContext(ctx, "batch prediction failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func execute(ctx context.Context, opts options) error {
	frequency, err := batch.ParseFrequency(opts.freq)
	if err != nil {
		return err
	}

	runnerOpts := batch.Options{
		GestationPeriod:       opts.gestation,
		Frequency:             frequency,
		MissingIndexThreshold: opts.missingThreshold,
	}
	if opts.birthDate != "" {
		birth, err := domain.ParseDate(opts.birthDate)
		if err != nil {
			return err
		}
		runnerOpts.BirthDate = &birth
	}

	artifact, err := model.Load(opts.modelDir)
	if err != nil {
		return err
	}

	recorder, err := predictionrecorder.NewRecorder(ctx, predictionrecorder.LoadConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close prediction recorder", slog.String("error", err.Error()))
		}
	}()

	service, err := predict.NewService(
		eligibility.NewChecker(),
		features.NewExtractor(features.WithParallel(opts.parallel)),
		artifact,
		nil,
		recorder,
		nil,
		decision.Rule{},
	)
	if err != nil {
		return err
	}

	series, err := readSeries(opts.in)
	if err != nil {
		return err
	}

	if opts.computeReferences {
		if err := batch.ComputeReferenceValues(series, frequency.Hz(), batch.DefaultTolerance2h, batch.DefaultTolerance24h); err != nil {
			return err
		}
	}

	runner := batch.NewRunner(service, runnerOpts)
	results, err := runner.Run(ctx, series, batch.Targets(series, opts.every))
	if err != nil {
		return err
	}

	return writeResults(opts.out, series, results, service.Classes())
}

func readSeries(path string) (*batch.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return batch.ReadCSV(f)
}

func writeResults(path string, series *batch.Series, results []batch.Result, classes []string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := batch.WriteCSV(w, series, results, classes); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	slog.Info("batch output written",
		slog.String("path", path),
		slog.Int("predictions", len(results)),
	)
	return nil
}
