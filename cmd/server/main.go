package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-calculator/internal/application"
	"github.com/eugenenazirov/plate-calculator/internal/config"
	"github.com/eugenenazirov/plate-calculator/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	overrides, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "plate-calculator: %v\n", err)
		os.Exit(2)
	}
	if err := run(overrides); err != nil {
		fmt.Fprintf(os.Stderr, "plate-calculator: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags maps command-line flags onto config overrides. Only flags the
// user actually passed end up set, so YAML and environment values survive.
func parseFlags(args []string) (*config.CLIOverrides, error) {
	app := kingpin.New("plate-calculator", "Works out which plates to load on a barbell or loading pin")
	app.Version(application.Version)

	var (
		o                                              config.CLIOverrides
		port, plates, level                            string
		rps                                            float64
		burst                                          int
		portSet, platesSet, levelSet, rpsSet, burstSet bool
	)
	app.Flag("config", "Path to YAML configuration file").StringVar(&o.ConfigFile)
	app.Flag("env-file", "Path to a dotenv file loaded before reading the environment").StringVar(&o.EnvFile)
	app.Flag("port", "HTTP port exposed by the service").IsSetByUser(&portSet).StringVar(&port)
	app.Flag("plates", "Initial plate inventory as weight:count pairs, e.g. 45:4,25:2").IsSetByUser(&platesSet).StringVar(&plates)
	app.Flag("log-level", "Log level (debug, info, warn, error)").IsSetByUser(&levelSet).StringVar(&level)
	app.Flag("rate-limit-rps", "Requests per second per client, 0 disables limiting").IsSetByUser(&rpsSet).Float64Var(&rps)
	app.Flag("rate-limit-burst", "Burst capacity per client, 0 disables limiting").IsSetByUser(&burstSet).IntVar(&burst)

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}

	if portSet {
		o.Port = &port
	}
	if platesSet {
		o.PlatesStr = &plates
	}
	if levelSet {
		o.LogLevel = &level
	}
	if rpsSet {
		o.RateLimitRPS = &rps
	}
	if burstSet {
		o.RateLimitBurst = &burst
	}
	return &o, nil
}

func run(overrides *config.CLIOverrides) error {
	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}
	if err := app.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutting down server", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
