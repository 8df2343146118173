package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/2beens/pushupchecker/internal/config"
	"github.com/2beens/pushupchecker/internal/logging"
	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/pushups"
	"github.com/2beens/pushupchecker/internal/telemetry/metrics"
	"github.com/2beens/pushupchecker/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
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
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "pushupchecker-tui",
		StdoutReserved:   true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// not exported, the registry only backs the counters the session driver updates
	metricsManager := metrics.NewManager("pushups", "tui", metrics.SetupPrometheus())

	sessions := pushups.NewManager(
		ctx,
		func(ctx context.Context) (pose.Source, error) {
			return pose.Open(ctx, cfg.OpenSourceParams(metricsManager))
		},
		cfg.Thresholds(),
		metricsManager,
	)

	p := tea.NewProgram(tui.NewModel(sessions, cfg.DefaultGoal), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Errorf("terminal ui: %s", err)
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	if snapshot, err := sessions.Stop(); err == nil {
		fmt.Printf("%s (%s)\n", snapshot.StatsLine(), snapshot.Type)
	}
}
