package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// migrationFiles - файлы с данным суффиксом в порядке номеров
func migrationFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// execFile выполняет SQL-файл в отдельной транзакции
func execFile(ctx context.Context, db *sqlx.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("exec %s: %w", filepath.Base(path), err)
	}
	return tx.Commit()
}

// ApplyMigrations применяет все *.up.sql из каталога по возрастанию номера
func ApplyMigrations(ctx context.Context, db *sqlx.DB, dir string) error {
	files, err := migrationFiles(dir, ".up.sql")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no up migrations in %s", dir)
	}

	for _, f := range files {
		if err := execFile(ctx, db, filepath.Join(dir, f)); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// RollbackMigrations откатывает *.down.sql в обратном порядке
func RollbackMigrations(ctx context.Context, db *sqlx.DB, dir string) error {
	files, err := migrationFiles(dir, ".down.sql")
	if err != nil {
		return err
	}

	for i := len(files) - 1; i >= 0; i-- {
		if err := execFile(ctx, db, filepath.Join(dir, files[i])); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
	}
	return nil
}
