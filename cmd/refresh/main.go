package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/notion"
)

// One-shot refresh: fetch the three databases, run the pipeline and print
// the resulting counters. Useful for verifying Notion credentials and
// schema before deploying the server.
func main() {
	_ = godotenv.Load()

	notionToken := flag.String("notion-token", "", "Notion API token (overrides NOTION_TOKEN)")
	transactionsDB := flag.String("transactions-db", "", "Transactions database ID (overrides TRANSACTIONS_DB_ID)")
	logLevel := flag.String("log-level", "", "Log level (overrides LOG_LEVEL)")
	flag.Parse()

	cfg := config.Load()
	if *notionToken != "" {
		cfg.NotionToken = *notionToken
	}
	if *transactionsDB != "" {
		cfg.TransactionsDBID = *transactionsDB
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	// The server-only settings don't matter for a one-shot run.
	cfg.DashboardPassword = "-"

	log := logger.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := logger.WithContext(context.Background(), log)

	source := notion.NewClient(cfg.NotionToken)
	svc := dashboard.NewService(source, cfg, log)

	snap, err := svc.Refresh(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Refresh failed")
	}

	log.Info().
		Str("refresh_id", snap.RefreshID).
		Int("transactions", len(snap.Transactions)).
		Int("skipped", snap.Skipped).
		Int("months", len(snap.MonthlyTotals)).
		Int("main_categories", len(snap.MonthlyByMain)).
		Int("sub_categories", len(snap.MonthlyBySub)).
		Msg("Refresh completed")
}
