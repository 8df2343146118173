package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/2beens/pushupchecker/internal"
	"github.com/2beens/pushupchecker/internal/config"
	"github.com/2beens/pushupchecker/internal/logging"
	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/pushups"
	"github.com/2beens/pushupchecker/internal/telemetry/metrics"
	"github.com/2beens/pushupchecker/pkg"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %s", err)
	}

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	if cfg.LogsPath != "" {
		if err := pkg.EnsureDir(filepath.Dir(cfg.LogsPath)); err != nil {
			log.Fatalf("create logs dir: %s", err)
		}
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "pushups-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using pose source: [%s]", cfg.PoseSource)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("pushups", "service", promRegistry)

	sessions := pushups.NewManager(
		ctx,
		func(ctx context.Context) (pose.Source, error) {
			return pose.Open(ctx, cfg.OpenSourceParams(metricsManager))
		},
		cfg.Thresholds(),
		metricsManager,
	)

	server, err := internal.NewServer(internal.NewServerParams{
		Config:                  cfg,
		Sessions:                sessions,
		MetricsManager:          metricsManager,
		PromRegistry:            promRegistry,
		VersionInfo:             versionInfo,
		HoneycombTracingEnabled: honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
