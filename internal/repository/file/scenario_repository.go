package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"go.uber.org/zap"
)

type scenarioRepository struct {
	path   string
	logger *zap.Logger
}

// NewScenarioRepository - файл сценария по фиксированному пути, общий для стадий
func NewScenarioRepository(path string, logger *zap.Logger) repository.ScenarioRepository {
	return &scenarioRepository{
		path:   path,
		logger: logger,
	}
}

// Save перезаписывает файл через временный файл и rename
func (r *scenarioRepository) Save(ctx context.Context, scenario *domain.Scenario) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scenario); err != nil {
		return "", fmt.Errorf("encode scenario: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scenario dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scenario-*.json")
	if err != nil {
		return "", fmt.Errorf("create temp scenario file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write scenario: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close scenario: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("chmod scenario: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return "", fmt.Errorf("replace scenario file: %w", err)
	}

	r.logger.Info("Scenario saved",
		zap.String("path", r.path),
		zap.String("scenario_name", scenario.ScenarioName))

	return r.path, nil
}

func (r *scenarioRepository) Load(ctx context.Context, path string) (*domain.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		path = r.path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario domain.Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}

	return &scenario, nil
}
