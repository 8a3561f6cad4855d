package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader(WithConfigPaths()).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "cutmatching" {
		t.Errorf("expected app name 'cutmatching', got %s", cfg.App.Name)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Game.PhiInverse != 2 {
		t.Errorf("expected phi inverse 2, got %d", cfg.Game.PhiInverse)
	}
	if cfg.Game.Solver != "edmonds-karp" {
		t.Errorf("expected solver 'edmonds-karp', got %s", cfg.Game.Solver)
	}
	if cfg.Game.MinRounds != 10 {
		t.Errorf("expected min rounds 10, got %d", cfg.Game.MinRounds)
	}
	if cfg.Game.RandomVectors != 0 {
		t.Errorf("expected unbounded vectors, got %d", cfg.Game.RandomVectors)
	}
	if cfg.Cache.Enabled || cfg.Cache.Driver != "memory" {
		t.Errorf("expected disabled memory cache, got %+v", cfg.Cache)
	}
	if cfg.Cache.DefaultTTL != 24*time.Hour {
		t.Errorf("expected cache ttl 24h, got %s", cfg.Cache.DefaultTTL)
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: custom-certifier
  environment: staging
log:
  level: debug
game:
  phi_inverse: 4
  random_vectors: 8
  solver: push-relabel
  seed: 42
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-certifier" {
		t.Errorf("expected app name 'custom-certifier', got %s", cfg.App.Name)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Log.Level)
	}
	if cfg.Game.PhiInverse != 4 {
		t.Errorf("expected phi inverse 4, got %d", cfg.Game.PhiInverse)
	}
	if cfg.Game.RandomVectors != 8 {
		t.Errorf("expected 8 random vectors, got %d", cfg.Game.RandomVectors)
	}
	if cfg.Game.Solver != "push-relabel" {
		t.Errorf("expected solver 'push-relabel', got %s", cfg.Game.Solver)
	}
	if cfg.Game.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Game.Seed)
	}
}

func TestLoader_LoadFromEnv(t *testing.T) {
	t.Setenv("CUTMATCHING_APP_NAME", "env-certifier")
	t.Setenv("CUTMATCHING_GAME_PHI_INVERSE", "7")
	t.Setenv("CUTMATCHING_GAME_SOLVER", "push-relabel")
	t.Setenv("CUTMATCHING_GAME_MIN_ROUNDS", "3")

	cfg, err := NewLoader(WithConfigPaths()).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-certifier" {
		t.Errorf("expected app name 'env-certifier', got %s", cfg.App.Name)
	}
	if cfg.Game.PhiInverse != 7 {
		t.Errorf("expected phi inverse 7, got %d", cfg.Game.PhiInverse)
	}
	if cfg.Game.Solver != "push-relabel" {
		t.Errorf("expected solver 'push-relabel', got %s", cfg.Game.Solver)
	}
	if cfg.Game.MinRounds != 3 {
		t.Errorf("expected min rounds 3, got %d", cfg.Game.MinRounds)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: file-certifier
game:
  phi_inverse: 5
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("CUTMATCHING_APP_NAME", "env-override")

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-override" {
		t.Errorf("expected env override, got %s", cfg.App.Name)
	}
	if cfg.Game.PhiInverse != 5 {
		t.Errorf("expected phi inverse from file 5, got %d", cfg.Game.PhiInverse)
	}
}

func TestLoader_OverridesWin(t *testing.T) {
	t.Setenv("CUTMATCHING_GAME_PHI_INVERSE", "7")

	cfg, err := NewLoader(
		WithConfigPaths(),
		WithOverrides(map[string]any{"game.phi_inverse": 9, "game.trials": 3}),
	).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Game.PhiInverse != 9 {
		t.Errorf("expected override phi inverse 9, got %d", cfg.Game.PhiInverse)
	}
	if cfg.Game.Trials != 3 {
		t.Errorf("expected 3 trials, got %d", cfg.Game.Trials)
	}
}

func TestLoader_InvalidOverrideFails(t *testing.T) {
	_, err := NewLoader(
		WithConfigPaths(),
		WithOverrides(map[string]any{"game.solver": "dinic"}),
	).Load()
	if err == nil {
		t.Fatal("expected validation error for unknown solver")
	}
}

func TestLoader_WithEnvPrefix(t *testing.T) {
	t.Setenv("CUSTOM_APP_NAME", "custom-prefix-service")

	cfg, err := NewLoader(WithConfigPaths(), WithEnvPrefix("CUSTOM_")).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-prefix-service" {
		t.Errorf("expected 'custom-prefix-service', got %s", cfg.App.Name)
	}
}

func TestMustLoad_Success(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustLoad should not panic with valid config")
		}
	}()

	cfg := MustLoad(WithConfigPaths())
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoad_Simple(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoader_ConfigEnvVar(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom-config.yaml")

	configContent := `
app:
  name: config-env-var-service
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("CONFIG_PATH", configPath)

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "config-env-var-service" {
		t.Errorf("expected 'config-env-var-service', got %s", cfg.App.Name)
	}
}
