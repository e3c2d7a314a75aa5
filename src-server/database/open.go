package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"bulletin/src-server/model"
	"bulletin/src-server/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type Driver string

const (
	DRIVER_SQLITE   = Driver("sqlite")
	DRIVER_POSTGRES = Driver("postgres")
)

// ParseURI picks the driver for a storage location. postgres:// URLs go to pgx,
// everything else is a sqlite path; a SQLAlchemy style sqlite:/// prefix is dropped.
func ParseURI(uri string) (Driver, string) {
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return DRIVER_POSTGRES, uri
	case strings.HasPrefix(uri, "sqlite:///"):
		return DRIVER_SQLITE, strings.TrimPrefix(uri, "sqlite:///")
	}
	return DRIVER_SQLITE, uri
}

func openBunDB(uri string, debug bool) (*bun.DB, error) {
	driver, dsn := ParseURI(uri)

	var db *bun.DB
	switch driver {
	case DRIVER_POSTGRES:
		rawDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("cannot open postgres database: %w", err)
		}
		db = bun.NewDB(rawDB, pgdialect.New())
	default:
		rawDB, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, fmt.Errorf("cannot open sqlite database: %w", err)
		}
		rawDB.SetMaxIdleConns(8)
		if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			// every connection would otherwise see its own empty database
			rawDB.SetMaxOpenConns(1)
		}
		db = bun.NewDB(rawDB, sqlitedialect.New())
	}

	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithWriter(os.Stderr),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}
	slog.Debug("database opened", "driver", driver)
	return db, nil
}

// Open connects to the storage location chosen by cfg and makes sure the schema exists.
func Open(ctx context.Context, cfg *utils.Config, metrics *utils.Metric) (*EventGateway, error) {
	db, err := openBunDB(cfg.GetDatabaseURI(), cfg.IsDebug())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot reach database: %w", err)
	}
	if err := model.CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &EventGateway{db: db, metrics: metrics}, nil
}
