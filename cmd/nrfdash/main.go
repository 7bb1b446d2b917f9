package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nrfsmart/nrfdash/internal/api"
	"github.com/nrfsmart/nrfdash/internal/client"
	"github.com/nrfsmart/nrfdash/internal/config"
	"github.com/nrfsmart/nrfdash/internal/poller"
	"github.com/nrfsmart/nrfdash/internal/session"
	"github.com/nrfsmart/nrfdash/internal/version"
	"github.com/nrfsmart/nrfdash/internal/webui"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "/etc/nrfdash/nrfdash.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, cfgErr := config.LoadConfig(*configPath)
	consoleSize := config.DefaultConsoleSize
	if cfgErr == nil {
		consoleSize = cfg.Web.ConsoleSize
	}

	// Developer console: the dashboard's own log lines
	logBuffer := webui.NewLogBuffer(consoleSize)

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logLevelParsed, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		logLevelParsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevelParsed)

	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	logger := zerolog.New(multiWriter).With().
		Timestamp().
		Str("version", version.Version).
		Logger()

	if cfgErr != nil {
		logger.Fatal().
			Err(cfgErr).
			Str("config_path", *configPath).
			Msg("Failed to load configuration")
	}

	logger.Info().
		Str("api_url", cfg.API.URL).
		Str("version", version.Full()).
		Msg("Starting nrfdash")

	sess := session.New(cfg.API.Username)
	hub := client.NewClient(cfg.API.URL, sess, cfg.API.Timeout, logger)

	devices := poller.NewDevicePoller(hub, sess.Banner(), logger)
	logs := poller.NewLogPoller(hub, sess.Banner(), logger)
	intervals := poller.Intervals{Devices: cfg.Polling.Devices, Logs: cfg.Polling.Logs}
	dashboard := poller.NewDashboard(devices, logs, intervals, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate := session.NewGate(sess, devices.Populate, logger)
	gate.OnLogin(func(context.Context) {
		// Polling outlives the login request.
		dashboard.Start(ctx)
	})
	gate.OnLogout(func() {
		dashboard.Stop()
		devices.Reset()
		logs.Reset()
	})

	server := api.NewServer(gate, dashboard, hub, logger, cfg.Web.Listen)
	server.SetLogBuffer(logBuffer)
	server.SetIntervals(intervals)
	server.SetVersion(version.Version, version.Commit, version.BuildDate)

	if cfg.API.Password != "" {
		if err := gate.Login(ctx, cfg.API.Password); err != nil {
			logger.Warn().Err(err).Msg("Automatic login failed, waiting for login form")
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		gate.Logout()
		return server.Shutdown(shutdownCtx)
	})

	logger.Info().
		Str("listen", cfg.Web.Listen).
		Msg("Dashboard available, press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Dashboard server error")
		os.Exit(1)
	}
	logger.Info().Msg("nrfdash stopped")
}
