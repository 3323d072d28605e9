// Package localdb opens the client's SQLite database, applies migrations
// and vends the local repositories.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/hashzone/internal/client/migrations"
	"github.com/dmitrijs2005/hashzone/internal/client/repositories/files"
	"github.com/dmitrijs2005/hashzone/internal/client/repositories/settings"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Repositories struct {
	Files    files.Repository
	Settings settings.Repository
	DB       *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Files:    files.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
