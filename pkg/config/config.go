// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config - главная структура конфигурации
type Config struct {
	App     AppConfig     `koanf:"app"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`
	Cache   CacheConfig   `koanf:"cache"`
	Game    GameConfig    `koanf:"game"`
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // путь к файлу логов
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // количество бэкапов
	MaxAge     int    `koanf:"max_age"`     // дней
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - настройки Prometheus метрик
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig - настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// CacheConfig - кэш вердиктов для запусков с фиксированным seed
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // для in-memory
}

// Address возвращает адрес кэша
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GameConfig - параметры игры cut-matching
type GameConfig struct {
	PhiInverse    int    `koanf:"phi_inverse"`    // 1/phi, ёмкость внутренних рёбер
	RandomVectors int    `koanf:"random_vectors"` // размер кэша случайных векторов, 0 = без ограничения
	EagerVectors  bool   `koanf:"eager_vectors"`  // заполнить кэш при старте
	Solver        string `koanf:"solver"`         // edmonds-karp, push-relabel
	Seed          uint64 `koanf:"seed"`           // 0 = случайный seed
	Trials        int    `koanf:"trials"`         // независимые запуски
	MinRounds     int    `koanf:"min_rounds"`
}

var validSolvers = map[string]bool{"edmonds-karp": true, "push-relabel": true}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		errs = append(errs, fmt.Sprintf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port))
	}

	if c.Cache.Enabled && c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		errs = append(errs, fmt.Sprintf("cache.driver must be one of: memory, redis, got %s", c.Cache.Driver))
	}

	// Валидация параметров игры
	if c.Game.PhiInverse < 1 {
		errs = append(errs, fmt.Sprintf("game.phi_inverse must be >= 1, got %d", c.Game.PhiInverse))
	}
	if c.Game.RandomVectors < 0 {
		errs = append(errs, "game.random_vectors must be non-negative")
	}
	if c.Game.EagerVectors && c.Game.RandomVectors == 0 {
		errs = append(errs, "game.eager_vectors requires game.random_vectors > 0")
	}
	if !validSolvers[c.Game.Solver] {
		errs = append(errs, fmt.Sprintf("game.solver must be one of: edmonds-karp, push-relabel, got %s", c.Game.Solver))
	}
	if c.Game.Trials < 1 {
		errs = append(errs, fmt.Sprintf("game.trials must be >= 1, got %d", c.Game.Trials))
	}
	if c.Game.MinRounds < 1 {
		errs = append(errs, fmt.Sprintf("game.min_rounds must be >= 1, got %d", c.Game.MinRounds))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment проверяет режим разработки
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction проверяет продакшн режим
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
