package testhelpers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
)

// LoadFixtures загружает SQL-фикстуры, каждую в своей транзакции
func LoadFixtures(ctx context.Context, db *sqlx.DB, dir string, files ...string) error {
	for _, f := range files {
		if err := execFile(ctx, db, filepath.Join(dir, f)); err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}
	}
	return nil
}

// CountRuns - число строк в simulations
func CountRuns(ctx context.Context, db *sqlx.DB) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM simulations"); err != nil {
		return 0, fmt.Errorf("count simulations: %w", err)
	}
	return n, nil
}
