// Package main seeds the identities table of a self-hosted (postgres backend)
// deployment from a Firebase auth export, so reconcile-orphans can run
// against it.
//
//	firebase auth:export users.json --format=JSON
//	seed users.json
//
// Import Path: github.com/sungjintrb/rtdb-admin/cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/sungjintrb/rtdb-admin/internal/config"
	"github.com/sungjintrb/rtdb-admin/internal/domain"
	"github.com/sungjintrb/rtdb-admin/internal/infrastructure"
	"github.com/sungjintrb/rtdb-admin/internal/pkg/logger"
	"github.com/sungjintrb/rtdb-admin/internal/provider/pgstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: %s <auth-export.json>", os.Args[0])
	}

	cfg, err := config.Load(os.Getenv("RTDB_ADMIN_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// seed owns its logger; the global one is left to rtdb-admin.
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := readExport(os.Args[1])
	if err != nil {
		return err
	}

	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database, log.Named("postgres"))
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	store := pgstore.New(db.Pool)
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	log.Info("Starting identity seeding...", zap.Int("records", len(records)))
	n, err := store.ImportIdentities(ctx, records)
	if err != nil {
		return fmt.Errorf("seed identities (%d written): %w", n, err)
	}

	log.Info("Identity seeding completed successfully", zap.Int("written", n))
	return nil
}

// readExport loads identity records from an auth export file.
func readExport(path string) ([]domain.IdentityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open auth export: %w", err)
	}
	defer f.Close()
	return pgstore.ParseAuthExport(f)
}
