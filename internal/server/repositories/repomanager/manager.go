package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/hashzone/internal/dbx"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/transfers"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/users"
	"github.com/dmitrijs2005/hashzone/internal/server/repositories/zones"
)

// RepositoryManager vends repository implementations bound to a DBTX
// (*sql.DB or, inside a transaction, *sql.Tx).
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Zones(db dbx.DBTX) zones.Repository
	Users(db dbx.DBTX) users.Repository
	Transfers(db dbx.DBTX) transfers.Repository
}
