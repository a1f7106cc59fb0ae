package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

func main() {
	var (
		cfgPath    string
		seedFlag   string
		ticks      int
		dt         time.Duration
		speed      float64
		tracePath  string
		logLevel   string
		dumpConfig string
	)
	flag.StringVar(&cfgPath, "config", "", "path to a JSON or YAML configuration file")
	flag.StringVar(&seedFlag, "seed", "", "world seed, overrides terrain.seed (default: derived from the clock)")
	flag.IntVar(&ticks, "ticks", 3600, "number of frames to simulate")
	flag.DurationVar(&dt, "dt", time.Second/60, "simulated time per frame")
	flag.Float64Var(&speed, "speed", 400, "avatar speed in world units per second")
	flag.StringVar(&tracePath, "trace", "", "directory for a compressed per-tick trace")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flag.StringVar(&dumpConfig, "dump-config", "", "write the effective configuration to this path and exit")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, source, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded", "source", source, "noise", cfg.Terrain.Noise)

	if seedFlag != "" {
		v, err := strconv.ParseInt(seedFlag, 10, 32)
		if err != nil {
			logger.Error("parse -seed", "value", seedFlag, "error", err)
			os.Exit(2)
		}
		seed := int32(v)
		cfg.Terrain.Seed = &seed
	}
	if cfg.Terrain.Seed == nil {
		logger.Warn("no seed configured, deriving one from the clock; this run will not reproduce")
	}
	seed := cfg.SeedOrClock(time.Now())

	if dumpConfig != "" {
		cfg.Terrain.Seed = &seed
		if err := writeConfig(dumpConfig, cfg); err != nil {
			logger.Error("dump config", "error", err)
			os.Exit(1)
		}
		logger.Info("configuration written", "path", dumpConfig)
		return
	}

	if ticks < 0 || dt < 0 {
		logger.Error("ticks and dt cannot be negative", "ticks", ticks, "dt", dt)
		os.Exit(2)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	start := time.Now()
	out, err := run(ctx, simulation{
		cfg:   cfg,
		seed:  seed,
		ticks: ticks,
		dt:    dt,
		speed: speed,
		trace: tracePath,
	}, logger)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("simulation finished",
		"seed", seed,
		"ticks", out.Ticks,
		"x", out.X,
		"energy", out.Energy,
		"eaten", out.Eaten,
		"created", out.Created,
		"removed", out.Removed,
		"entities", out.Entities,
		"trace", out.Trace,
		"elapsed", time.Since(start))
}

func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
			return
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			logger.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
