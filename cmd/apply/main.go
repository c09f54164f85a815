// Command apply runs an emitted seed script against Postgres inside a
// single transaction. It is a separate binary on purpose: the emitter
// itself never touches a database, so imports can be generated and
// reviewed without credentials.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ovniasbl/compta-import/internal/config"
	"github.com/ovniasbl/compta-import/internal/logger"
)

func main() {
	fileFlag := flag.String("file", "", "SQL script to apply (required)")
	configFlag := flag.String("config", "", "Path to TOML config file")
	urlFlag := flag.String("database-url", "", "Postgres connection URL (overrides config/OVNI_DATABASE_URL)")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	log := logger.New(*verboseFlag)

	if *fileFlag == "" {
		log.Fatal().Msg("missing -file")
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	url := cfg.Database.URL
	if *urlFlag != "" {
		url = *urlFlag
	}
	if url == "" {
		log.Fatal().Msg("no database URL configured; set -database-url or OVNI_DATABASE_URL")
	}

	script, err := os.ReadFile(*fileFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("read script")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is a no-op after commit

	if _, err := tx.Exec(ctx, string(script)); err != nil {
		log.Fatal().Err(err).Str("file", *fileFlag).Msg("apply failed, rolled back")
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatal().Err(err).Msg("commit")
	}

	log.Info().Str("file", *fileFlag).Msg("script applied")
}
