package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/pushupchecker/internal/config"
	"github.com/2beens/pushupchecker/internal/logging"
	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/pushups"
	"github.com/2beens/pushupchecker/internal/telemetry/metrics"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "pushups-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsManager := metrics.NewManager("pushups", "console", metrics.SetupPrometheus())

	source, err := pose.Open(ctx, cfg.OpenSourceParams(metricsManager))
	if err != nil {
		log.Errorf("open pose source: %s", err)
		os.Exit(1)
	}

	// no goal, runs until interrupted or the pose stream fails
	session := pushups.NewSession(pushups.SessionParams{
		Type:       pushups.PushUpTypeStandard,
		Thresholds: cfg.Thresholds(),
	})
	driver := pushups.NewDriver(source, session, metricsManager)

	runErr := make(chan error, 1)
	go func() {
		runErr <- driver.Run(ctx)
	}()

	fmt.Println("Perform push-ups, Ctrl+C to stop.")
	lastCount := 0
	for snapshot := range driver.Updates() {
		if snapshot.Count != lastCount {
			lastCount = snapshot.Count
			fmt.Printf("Push-ups: %d\n", snapshot.Count)
		}
	}

	final := session.Snapshot()
	fmt.Println(final.StatsLine())

	if err := <-runErr; err != nil {
		log.Errorf("session: %s", err)
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
