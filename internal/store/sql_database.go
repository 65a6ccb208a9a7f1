package store

import (
	"database/sql"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
