package repository

import (
	"context"

	"github.com/trip-impact-service/internal/domain"
)

// ScenarioRepository хранит документ сценария в файле, который читает компилятор
type ScenarioRepository interface {
	// Save перезаписывает файл сценария и возвращает его путь
	Save(ctx context.Context, scenario *domain.Scenario) (string, error)

	// Load читает сценарий из файла
	Load(ctx context.Context, path string) (*domain.Scenario, error)
}

// ScenarioCompilerRepository - внешний компилятор сценария в бинарный вид
type ScenarioCompilerRepository interface {
	// Import компилирует JSON-сценарий для карты mapBinPath
	Import(ctx context.Context, mapBinPath, scenarioPath string) error
}
