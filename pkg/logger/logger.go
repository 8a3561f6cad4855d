package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *slog.Logger

// Config конфигурация логгера
type Config struct {
	Level      string
	Format     string // json, text
	Output     string // stdout, stderr, file
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Init инициализирует логгер
func Init(level string) {
	InitWithConfig(Config{
		Level:  level,
		Format: "json",
		Output: "stderr",
	})
}

// InitWithConfig инициализирует глобальный логгер с полной конфигурацией
func InitWithConfig(cfg Config) {
	Log = New(cfg)
}

// New создаёт логгер без изменения глобального состояния
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: parseLevel(cfg.Level) == slog.LevelDebug,
	}

	writer := newWriter(cfg)

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	return slog.New(handler)
}

// Nop возвращает логгер, который ничего не пишет
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Get возвращает глобальный логгер или slog.Default, если Init не вызывался
func Get() *slog.Logger {
	if Log == nil {
		return slog.Default()
	}
	return Log
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newWriter(cfg Config) io.Writer {
	switch cfg.Output {
	case "stdout":
		return os.Stdout
	case "file":
		if cfg.FilePath == "" {
			cfg.FilePath = "logs/cutmatching.log"
		}
		// Создаём директорию
		dir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return os.Stderr
		}
		// Используем lumberjack для ротации
		return &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	default:
		// stdout занят результатом проверки
		return os.Stderr
	}
}

// WithContext добавляет контекстные данные
func WithContext(ctx context.Context, args ...any) *slog.Logger {
	return Get().With(args...)
}

// WithRunID добавляет идентификатор запуска
func WithRunID(runID string) *slog.Logger {
	return Get().With("run_id", runID)
}

// WithService добавляет имя сервиса
func WithService(service string) *slog.Logger {
	return Get().With("service", service)
}

// Debug логирует debug сообщение
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info логирует info сообщение
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn логирует warning сообщение
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error логирует error сообщение
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// Fatal логирует fatal сообщение и завершает программу
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}
