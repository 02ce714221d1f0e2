package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/trip-impact-service/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	connectAttempts = 5
	firstRetryDelay = 500 * time.Millisecond
)

// TestDB - подключение к тестовой базе журнала прогонов
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// testConfig собирает настройки БД из TEST_DB_*, ok == false если TEST_DB_HOST не задан
func testConfig() (*config.Config, bool) {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		return nil, false
	}

	var port int
	if _, err := fmt.Sscanf(getEnv("TEST_DB_PORT", "5433"), "%d", &port); err != nil {
		port = 5433
	}

	return &config.Config{
		Database: config.DatabaseConfig{
			Host:     host,
			Port:     port,
			User:     getEnv("TEST_DB_USER", "postgres"),
			Password: getEnv("TEST_DB_PASSWORD", "postgres"),
			DBName:   getEnv("TEST_DB_NAME", "traffic_test"),
			SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
		},
	}, true
}

// SetupTestDB подключается к тестовому PostgreSQL, без TEST_DB_HOST набор пропускается
func SetupTestDB(t *testing.T) *TestDB {
	cfg, ok := testConfig()
	if !ok {
		t.Skip("TEST_DB_HOST is not set, skipping PostgreSQL integration tests")
	}

	var (
		db    *sqlx.DB
		err   error
		delay = firstRetryDelay
	)
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = sqlx.Connect("postgres", cfg.GetDatabaseDSN())
		if err == nil {
			break
		}
		if attempt < connectAttempts {
			t.Logf("Database not ready (attempt %d/%d), retrying in %v", attempt, connectAttempts, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}
	if err != nil {
		t.Skipf("Test database unavailable after %d attempts: %v", connectAttempts, err)
	}

	return &TestDB{
		DB:     db,
		Logger: zaptest.NewLogger(t),
	}
}

func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.Close()
	}
}

// Cleanup очищает журнал и сбрасывает последовательность id
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	if _, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE simulations RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate simulations: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
