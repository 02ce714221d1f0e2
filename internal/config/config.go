package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Oracle    OracleConfig
	Geocoder  GeocoderConfig
	Simulator SimulatorConfig
	Importer  ImporterConfig
	Map       MapConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	CORSOrigins    string
	// SimulationWait - сколько запрос ждёт свободный сервер симуляции до 503
	SimulationWait time.Duration
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type CacheConfig struct {
	GeocodeCacheTTL time.Duration
	SessionTTL      time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
	ShutdownTimeout   time.Duration
}

// OracleConfig - OpenAI-совместимый сервис для разбора текста поездки
type OracleConfig struct {
	APIKey      string
	APIBase     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Enabled - оракул настроен, если задан ключ
func (c OracleConfig) Enabled() bool {
	return c.APIKey != ""
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// SimulatorConfig - HTTP API сервера симуляции
type SimulatorConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	// AdvanceTimeout ограничивает goto-time, 0 - без таймаута на клиенте
	AdvanceTimeout time.Duration
	// LockKey и LockTTL - общая для всех процессов блокировка сервера в Redis
	LockKey        string
	LockTTL        time.Duration
}

type ImporterConfig struct {
	Binary  string
	WorkDir string
}

// MapConfig - идентичность карты и параметры генерируемого сценария
type MapConfig struct {
	Country          string
	City             string
	Name             string
	ScenarioName     string
	ScenarioFile     string
	DepartureSeconds int64
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// .env is optional, plain environment variables are enough
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("API_HOST"),
			Port:           v.GetInt("API_PORT"),
			Env:            v.GetString("API_ENV"),
			CORSOrigins:    v.GetString("CORS_ORIGINS"),
			SimulationWait: time.Duration(v.GetInt("API_SIMULATION_WAIT")) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("DB_DRIVER"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			SQLitePath:      v.GetString("SQLITE_PATH"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Cache: CacheConfig{
			GeocodeCacheTTL: time.Duration(v.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
			SessionTTL:      time.Duration(v.GetInt("SESSION_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
			ShutdownTimeout:   time.Duration(v.GetInt("WORKER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		Oracle: OracleConfig{
			APIKey:      v.GetString("ORACLE_API_KEY"),
			APIBase:     v.GetString("ORACLE_API_BASE"),
			Model:       v.GetString("ORACLE_MODEL"),
			Temperature: v.GetFloat64("ORACLE_TEMPERATURE"),
			Timeout:     time.Duration(v.GetInt("ORACLE_TIMEOUT")) * time.Second,
		},
		Geocoder: GeocoderConfig{
			BaseURL:   v.GetString("GEOCODER_BASE_URL"),
			UserAgent: v.GetString("GEOCODER_USER_AGENT"),
			Timeout:   time.Duration(v.GetInt("GEOCODER_TIMEOUT")) * time.Second,
		},
		Simulator: SimulatorConfig{
			BaseURL:        v.GetString("SIM_BASE_URL"),
			RequestTimeout: time.Duration(v.GetInt("SIM_REQUEST_TIMEOUT")) * time.Second,
			AdvanceTimeout: time.Duration(v.GetInt("SIM_ADVANCE_TIMEOUT")) * time.Second,
			LockKey:        v.GetString("SIM_LOCK_KEY"),
			LockTTL:        time.Duration(v.GetInt("SIM_LOCK_TTL")) * time.Second,
		},
		Importer: ImporterConfig{
			Binary:  v.GetString("IMPORTER_BINARY"),
			WorkDir: v.GetString("IMPORTER_WORKDIR"),
		},
		Map: MapConfig{
			Country:          v.GetString("MAP_COUNTRY"),
			City:             v.GetString("MAP_CITY"),
			Name:             v.GetString("MAP_NAME"),
			ScenarioName:     v.GetString("SCENARIO_NAME"),
			ScenarioFile:     v.GetString("SCENARIO_FILE"),
			DepartureSeconds: v.GetInt64("SCENARIO_DEPARTURE"),
		},
	}

	if cfg.Map.DepartureSeconds < 0 {
		return nil, fmt.Errorf("SCENARIO_DEPARTURE must not be negative, got %d", cfg.Map.DepartureSeconds)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("API_SIMULATION_WAIT", 120)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "traffic_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "data/runs.db")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 1800)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 300)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("GEOCODE_CACHE_TTL", 7*24*3600)
	v.SetDefault("SESSION_TTL", 6*3600)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_CONSUMER_GROUP", "simulation-run-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("WORKER_SHUTDOWN_TIMEOUT", 900)

	v.SetDefault("ORACLE_API_BASE", "https://api.openai.com/v1")
	v.SetDefault("ORACLE_MODEL", "gpt-4o-mini")
	v.SetDefault("ORACLE_TEMPERATURE", 0.0)
	v.SetDefault("ORACLE_TIMEOUT", 60)

	v.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "trip-impact-service")
	v.SetDefault("GEOCODER_TIMEOUT", 15)

	v.SetDefault("SIM_BASE_URL", "http://127.0.0.1:1234")
	v.SetDefault("SIM_REQUEST_TIMEOUT", 120)
	v.SetDefault("SIM_ADVANCE_TIMEOUT", 0)
	v.SetDefault("SIM_LOCK_KEY", "lock:simulation-server")
	v.SetDefault("SIM_LOCK_TTL", 30)

	v.SetDefault("IMPORTER_BINARY", "target/release/cli")
	v.SetDefault("IMPORTER_WORKDIR", ".")

	v.SetDefault("MAP_COUNTRY", "zz")
	v.SetDefault("MAP_CITY", "oneshot")
	v.SetDefault("MAP_NAME", "new-cairo")
	v.SetDefault("SCENARIO_NAME", "natural_lang_trip")
	v.SetDefault("SCENARIO_FILE", "generated_abstreet_script.json")
	v.SetDefault("SCENARIO_DEPARTURE", 8000)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// GetMapBinPath - путь к бинарной карте, которую принимает компилятор сценариев
func (c *Config) GetMapBinPath() string {
	return filepath.Join("data", "system", c.Map.Country, c.Map.City, "maps", c.Map.Name+".bin")
}

// GetScenarioBinPath - путь, по которому компилятор кладёт сценарий с данным именем
func (c *Config) GetScenarioBinPath(scenarioName string) string {
	return filepath.Join("data", "system", c.Map.Country, c.Map.City, "scenarios", c.Map.Name, scenarioName+".bin")
}
