// Command citystats augments a city statistics document with plausible
// demographic attributes derived from a road network: noise-based population
// and industry weights per street, city gates on the network boundary and
// school locations.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soeholm/citystats/internal/config"
	"github.com/soeholm/citystats/internal/gen"
	"github.com/soeholm/citystats/internal/journal"
	"github.com/soeholm/citystats/internal/network"
	"github.com/soeholm/citystats/internal/stats"
)

func main() {
	var (
		netFile     = flag.String("net-file", "", "input road network file (required)")
		statFile    = flag.String("stat-file", "", "input statistics file to augment (required)")
		outputFile  = flag.String("output-file", "", "output statistics file (required)")
		configFile  = flag.String("config", "", "optional YAML configuration file")
		gates       = flag.Int("gates", -1, "number of city gates (overrides config)")
		schools     = flag.String("schools", "", "number of schools, or 'auto' to derive from population (overrides config)")
		seed        = flag.Int64("seed", 0, "random seed (overrides config)")
		randomSeed  = flag.Bool("random", false, "seed the random generator from the current time")
		journalPath = flag.String("journal", "", "optional SQLite run journal")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn, error")
		logFile     = flag.String("log-file", "", "also write logs to this file")
	)
	flag.Parse()

	if *netFile == "" || *statFile == "" || *outputFile == "" {
		fmt.Fprintln(os.Stderr, "citystats: -net-file, -stat-file and -output-file are required")
		flag.Usage()
		os.Exit(2)
	}

	closeLog, err := setupLogging(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "citystats:", err)
		os.Exit(2)
	}
	defer closeLog()

	cfg := config.Default()
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if *gates >= 0 {
		cfg.Gates.Count = *gates
	}
	switch *schools {
	case "":
		// keep config value
	case "auto":
		cfg.Schools.Count = nil
	default:
		n, err := strconv.Atoi(*schools)
		if err != nil || n < 0 {
			slog.Error("invalid -schools value", "value", *schools)
			os.Exit(2)
		}
		cfg.Schools.Count = &n
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *randomSeed {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	slog.Info("reading network", "path", *netFile)
	net, err := network.LoadFile(*netFile)
	if err != nil {
		slog.Error("failed to read network", "error", err)
		os.Exit(1)
	}

	slog.Info("parsing statistics", "path", *statFile)
	doc, err := stats.LoadFile(*statFile)
	if err != nil {
		slog.Error("failed to parse statistics", "error", err)
		os.Exit(1)
	}

	started := time.Now()
	pipeline := &gen.Pipeline{
		Net: net,
		Doc: doc,
		Cfg: cfg,
		Rng: rand.New(rand.NewSource(cfg.Seed)),
	}
	summary, err := pipeline.Run()
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	slog.Info("writing statistics", "path", *outputFile)
	if err := doc.WriteFile(*outputFile); err != nil {
		slog.Error("failed to write statistics", "error", err)
		os.Exit(1)
	}

	if *journalPath != "" {
		recordRun(*journalPath, started, cfg.Seed, summary, *netFile, *statFile, *outputFile)
	}

	slog.Info("done",
		"streets", humanize.Comma(int64(summary.StreetsWeighted)),
		"gates", summary.GatesAdded,
		"schools", summary.SchoolsAdded,
		"seed", cfg.Seed,
		"took", time.Since(started).Round(time.Millisecond))
}

// setupLogging configures the default slog logger, optionally teeing output
// to a log file. The returned func closes the file.
func setupLogging(level, path string) (func(), error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	out := io.Writer(os.Stdout)
	closeLog := func() {}
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closeLog = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return closeLog, nil
}

// recordRun appends the run to the journal. Journal failures are logged and
// otherwise ignored; the statistics output is already on disk.
func recordRun(path string, started time.Time, seed int64, sum gen.Summary, netFile, statFile, outputFile string) {
	db, err := journal.Open(path)
	if err != nil {
		slog.Warn("run journal unavailable", "error", err)
		return
	}
	defer db.Close()

	id, err := db.Record(journal.Run{
		StartedAt:       started.UTC(),
		Duration:        time.Since(started),
		Seed:            seed,
		PopulationBase:  sum.Bases.Population,
		IndustryBase:    sum.Bases.Industry,
		StreetsWeighted: sum.StreetsWeighted,
		GatesAdded:      sum.GatesAdded,
		SchoolsAdded:    sum.SchoolsAdded,
		NetFile:         netFile,
		StatFile:        statFile,
		OutputFile:      outputFile,
	})
	if err != nil {
		slog.Warn("failed to record run", "error", err)
		return
	}
	slog.Debug("run recorded", "id", id)
}
