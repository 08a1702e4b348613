package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"state_notifier/internal/app"
	"state_notifier/internal/domain/rule"
	"state_notifier/internal/infra/config"
	idb "state_notifier/internal/infra/database"
	iha "state_notifier/internal/infra/homeassistant"
	"state_notifier/internal/infra/logger"
	"state_notifier/internal/infra/scheduler"
	iwh "state_notifier/internal/infra/webhook"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config  string `short:"c" help:"Path to configuration file" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Make the operation more talkative"`
	State   string `help:"Override for the entity state, skipping discovery"`

	Run    struct{} `cmd:"" default:"1" help:"Execute a single gated notification run"`
	Daemon struct{} `cmd:"" help:"Keep running and fire the gated run on the configured schedule"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("notifier"),
		kong.Description("State-driven webhook notifier for a Home Assistant entity"),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		logger.Get().Fatalf("Could not load application configuration: %v", err)
	}
	if CLI.Verbose {
		cfg.LogLevel = "debug"
	}
	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. Entity: %s, Rules: %d", cfg.HomeAssistant.EntityID, len(cfg.Rules))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Could not create data directory %s: %v", cfg.DataDir, err)
	}
	db, err := idb.NewSQLiteConnection(filepath.Join(cfg.DataDir, "notifier.db"))
	if err != nil {
		log.Fatalf("Could not open run ledger: %v", err)
	}
	defer db.Close()
	runRepo := idb.NewSQLiteRunRepository(db)

	source := iha.NewHTTPClient(cfg.HomeAssistant.URL, cfg.HomeAssistant.AccessToken, cfg.HomeAssistant.Insecure)
	webhookClient := iwh.NewHTTPClient()

	rules := make([]rule.Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, rule.Rule{
			MatchKey:   r.State,
			WebhookURL: r.WebhookURL,
			Message:    r.Message,
			TargetID:   r.TargetID,
		})
	}
	table := rule.NewTable(rules)
	for _, key := range table.DuplicateKeys() {
		log.Warnf("Rule state %q is declared more than once; the first declaration wins.", key)
	}

	var summary *app.SummaryTarget
	if cfg.Summary != nil {
		summary = &app.SummaryTarget{WebhookURL: cfg.Summary.WebhookURL, TargetID: cfg.Summary.TargetID}
	}

	svc := app.NewRunService(runRepo, source, webhookClient, table, cfg.HomeAssistant.EntityID, summary, log)

	switch kctx.Command() {
	case "run":
		if err := svc.Execute(context.Background(), CLI.State); err != nil {
			log.Fatalf("Notification run failed: %v", err)
		}
	case "daemon":
		runScheduler := scheduler.NewRunScheduler(svc, log, cfg.CronSpec)
		runScheduler.Start()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down...")
		runScheduler.Stop()
	}
}
