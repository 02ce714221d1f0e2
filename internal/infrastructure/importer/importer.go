package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/domain/repository"
	"go.uber.org/zap"
)

// stderrTail - сколько байт stderr компилятора попадает в ошибку
const stderrTail = 2048

// ExitError - компилятор завершился с ненулевым кодом
type ExitError struct {
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("import-scenario exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("import-scenario exited with code %d: %s", e.ExitCode, e.Stderr)
}

type cliImporter struct {
	binary  string
	workDir string
	logger  *zap.Logger
}

// NewCLIImporter запускает `<binary> import-scenario --map ... --input ...` в рабочем каталоге
func NewCLIImporter(cfg *config.ImporterConfig, logger *zap.Logger) repository.ScenarioCompilerRepository {
	return &cliImporter{
		binary:  cfg.Binary,
		workDir: cfg.WorkDir,
		logger:  logger,
	}
}

// Import блокируется до завершения компилятора. Успех только при коде 0.
// mapBinPath задаётся относительно рабочего каталога компилятора, scenarioPath -
// относительно каталога процесса, поэтому он передаётся абсолютным
func (i *cliImporter) Import(ctx context.Context, mapBinPath, scenarioPath string) error {
	input, err := filepath.Abs(scenarioPath)
	if err != nil {
		return fmt.Errorf("resolve scenario path %s: %w", scenarioPath, err)
	}

	cmd := exec.CommandContext(ctx, i.binary,
		"import-scenario",
		"--map", mapBinPath,
		"--input", input,
	)
	cmd.Dir = i.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	i.logger.Info("Importing scenario",
		zap.String("binary", i.binary),
		zap.String("map", mapBinPath),
		zap.String("input", input),
		zap.String("work_dir", i.workDir))

	start := time.Now()
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			tail := tailString(strings.TrimSpace(stderr.String()), stderrTail)
			i.logger.Error("Scenario import failed",
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.String("stderr", tail))
			return &ExitError{ExitCode: exitErr.ExitCode(), Stderr: tail}
		}
		i.logger.Error("Failed to run scenario importer", zap.Error(err))
		return fmt.Errorf("run %s: %w", i.binary, err)
	}

	i.logger.Info("Scenario imported",
		zap.Duration("duration", time.Since(start)),
		zap.Int("stdout_bytes", stdout.Len()))
	return nil
}

func tailString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
