package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "CUTMATCHING_"
	configEnvVar = "CONFIG_PATH"
)

// Loader загружает конфигурацию из разных источников
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
	overrides   map[string]any
}

// NewLoader создаёт новый загрузчик конфигурации
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/cutmatching/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption - опция для конфигурации загрузчика
type LoaderOption func(*Loader)

// WithConfigPaths устанавливает пути поиска конфигурации
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithEnvPrefix устанавливает префикс переменных окружения
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithOverrides задаёт значения с наивысшим приоритетом (например, флаги CLI).
// Ключи в формате koanf: "game.phi_inverse".
func WithOverrides(values map[string]any) LoaderOption {
	return func(l *Loader) {
		l.overrides = values
	}
}

// Load загружает конфигурацию с приоритетом:
// 1. Defaults (самый низкий)
// 2. Config file (yaml)
// 3. Environment variables
// 4. Overrides (самый высокий)
func (l *Loader) Load() (*Config, error) {
	// 1. Загружаем значения по умолчанию
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Загружаем из файла конфигурации; файл не обязателен
	_ = l.loadConfigFile()

	// 3. Загружаем из переменных окружения (перезаписывают файл)
	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	// 4. Явные переопределения
	if len(l.overrides) > 0 {
		if err := l.k.Load(confmap.Provider(l.overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	// 5. Распаковываем в структуру
	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Валидируем
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDefaults загружает значения по умолчанию
func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		// App
		"app.name":        "cutmatching",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		// Log
		"log.level":       "info",
		"log.format":      "text",
		"log.output":      "stderr",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":   false,
		"metrics.port":      9090,
		"metrics.path":      "/metrics",
		"metrics.namespace": "cutmatching",
		"metrics.subsystem": "",

		// Tracing
		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": "cutmatching",
		"tracing.sample_rate":  0.1,

		// Cache
		"cache.enabled":     false,
		"cache.driver":      "memory",
		"cache.host":        "localhost",
		"cache.port":        6379,
		"cache.db":          0,
		"cache.default_ttl": 24 * time.Hour,
		"cache.max_entries": 1000,

		// Game
		"game.phi_inverse":    2,
		"game.random_vectors": 0,
		"game.eager_vectors":  false,
		"game.solver":         "edmonds-karp",
		"game.seed":           0,
		"game.trials":         1,
		"game.min_rounds":     10,
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

// loadConfigFile загружает конфигурацию из файла
func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

// loadEnv загружает конфигурацию из переменных окружения
// Использует маппинг ключей для полей с подчёркиванием
func (l *Loader) loadEnv() error {
	return l.k.Load(env.ProviderWithValue(l.envPrefix, ".", func(envKey string, value string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))

		if mappedKey, ok := envKeyMappings[key]; ok {
			key = mappedKey
		} else {
			// По умолчанию заменяем все подчёркивания на точки
			key = strings.ReplaceAll(key, "_", ".")
		}

		return key, value
	}), nil)
}

// envKeyMappings - маппинг переменных окружения на ключи конфига
// Необходим для полей, содержащих подчёркивания в именах
var envKeyMappings = map[string]string{
	// Log
	"log_level":       "log.level",
	"log_format":      "log.format",
	"log_output":      "log.output",
	"log_file_path":   "log.file_path",
	"log_max_size":    "log.max_size",
	"log_max_backups": "log.max_backups",
	"log_max_age":     "log.max_age",
	"log_compress":    "log.compress",

	// Tracing
	"tracing_service_name": "tracing.service_name",
	"tracing_sample_rate":  "tracing.sample_rate",

	// Cache
	"cache_default_ttl": "cache.default_ttl",
	"cache_max_entries": "cache.max_entries",

	// Game
	"game_phi_inverse":    "game.phi_inverse",
	"game_random_vectors": "game.random_vectors",
	"game_eager_vectors":  "game.eager_vectors",
	"game_min_rounds":     "game.min_rounds",
}

// MustLoad загружает конфигурацию или паникует
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load - удобная функция для загрузки с дефолтными настройками
func Load() (*Config, error) {
	return NewLoader().Load()
}
