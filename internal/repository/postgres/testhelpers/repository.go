package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/repository/postgres"
)

// NewBoundaryRepositoryForTest creates a boundary repository with test database and logger
func NewBoundaryRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.BoundaryRepository {
	return postgres.NewBoundaryRepository(postgres.NewDBForTest(db, logger))
}

// NewZoneRepositoryForTest creates a zone repository with test database and logger
func NewZoneRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ZoneRepository {
	return postgres.NewZoneRepository(postgres.NewDBForTest(db, logger))
}
