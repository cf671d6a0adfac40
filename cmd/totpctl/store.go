package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/totpauth/db/migrations"
	"github.com/dmitrymomot/totpauth/pkg/config"
	"github.com/dmitrymomot/totpauth/pkg/pg"
	"github.com/dmitrymomot/totpauth/svc/enrollment/gormstore"
	"github.com/dmitrymomot/totpauth/svc/enrollment/pgstore"
)

// storeTarget names the database the sql commands operate on.
// Flags override the environment.
type storeTarget struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"totpauth.db"`
}

type clientRegistry interface {
	AddClient(ctx context.Context, clientID string) error
}

func (t *storeTarget) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.Driver, "driver", "", "postgres or sqlite, STORE_DRIVER when empty")
	cmd.Flags().StringVar(&t.SQLitePath, "sqlite-path", "", "database file for the sqlite driver, SQLITE_PATH when empty")
}

func (t storeTarget) resolve() (storeTarget, error) {
	var env storeTarget
	if err := config.Parse(&env); err != nil {
		return storeTarget{}, err
	}
	if t.Driver != "" {
		env.Driver = t.Driver
	}
	if t.SQLitePath != "" {
		env.SQLitePath = t.SQLitePath
	}
	return env, nil
}

// open connects to the target and applies pending migrations.
func (t storeTarget) open(ctx context.Context, log *slog.Logger) (clientRegistry, func(), error) {
	target, err := t.resolve()
	if err != nil {
		return nil, nil, err
	}

	switch target.Driver {
	case "postgres":
		var cfg pg.Config
		if err := config.Parse(&cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, migrations.FS, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgstore.New(pool), pool.Close, nil

	case "sqlite":
		db, err := gormstore.Open(target.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return gormstore.New(db), closeDB, nil
	}

	return nil, nil, fmt.Errorf("unsupported driver %q", target.Driver)
}
