package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewRunRepositoryForTest - журнал прогонов поверх уже открытого тестового подключения
func NewRunRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.RunRepository {
	return postgres.NewRunRepository(postgres.NewDBForTest(db, logger))
}
