package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/repository"
)

// NewRepositories fills the Postgres-backed repositories into repos
func NewRepositories(db *sql.DB, repos *repository.Repositories, logger *zap.Logger) *repository.Repositories {
	repos.ImportRun = NewImportRunRepository(db, logger)
	return repos
}
