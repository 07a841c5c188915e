package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tippace/internal/dbx"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/goals"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/settings"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/shifts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Shifts(db dbx.DBTX) shifts.Repository
	Goals(db dbx.DBTX) goals.Repository
	Settings(db dbx.DBTX) settings.Repository
}
