// Package app is the composition root: it opens exactly one backend from config
// and hands explicit handles to the commands.
package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/sungjintrb/rtdb-admin/internal/config"
	"github.com/sungjintrb/rtdb-admin/internal/domain"
	"github.com/sungjintrb/rtdb-admin/internal/infrastructure"
	apperrors "github.com/sungjintrb/rtdb-admin/internal/pkg/errors"
	"github.com/sungjintrb/rtdb-admin/internal/provider/pgstore"
	"github.com/sungjintrb/rtdb-admin/internal/provider/rtdb"
)

// Application holds the opened backend.
type Application struct {
	Config    *config.Config
	Directory domain.IdentityDirectory
	Store     domain.Store
	DB        *infrastructure.DatabaseClients

	log     *zap.Logger
	closers []func() error
}

// Bootstrap opens the configured backend and verifies it is reachable.
// Any failure is a SETUP_FAILED error and nothing is left open.
func Bootstrap(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Application, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Application{Config: cfg, log: log}

	switch cfg.Backend {
	case config.BackendFirebase:
		client, err := rtdb.Open(ctx, cfg.Firebase, log.Named("rtdb"))
		if err != nil {
			return nil, apperrors.Setup(err, "open firebase app")
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, apperrors.Setup(err, "reach firebase")
		}
		a.Directory = client
		a.Store = client
		a.closers = append(a.closers, client.Close)

	case config.BackendPostgres:
		db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database, log.Named("postgres"))
		if err != nil {
			return nil, apperrors.Setup(err, "open postgres")
		}
		store := pgstore.New(db.Pool)
		if cfg.Database.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				db.Close()
				return nil, apperrors.Setup(err, "auto-migrate")
			}
		}
		a.DB = db
		a.Directory = store
		a.Store = store
		a.closers = append(a.closers, func() error { db.Close(); return nil })

	default:
		return nil, apperrors.ConfigInvalid("unknown backend " + cfg.Backend)
	}

	log.Info("backend ready", zap.String("backend", cfg.Backend))
	return a, nil
}
