package config

import (
	"os"
	"path/filepath"
	"testing"

	"snake-arcade/game/manager"
	"snake-arcade/game/types"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load([]string{"-env="})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GridSize != types.DefaultGridSize || cfg.Difficulty != types.Medium {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxSpeed != 20 || cfg.SpeedIncrement != 1 || cfg.MaxAttempts != 300 {
		t.Errorf("unexpected speed/placement defaults: %+v", cfg)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SNAKE_DIFFICULTY", "hard")
	t.Setenv("SNAKE_GRID_SIZE", "24")
	t.Setenv("SNAKE_MUTED", "true")

	cfg, err := Load([]string{"-env=", "-grid", "30", "-ui", "term"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GridSize != 30 {
		t.Errorf("grid = %d, want the flag value 30", cfg.GridSize)
	}
	if cfg.Difficulty != types.Hard || !cfg.Muted || cfg.UI != UITerm {
		t.Errorf("environment not applied: %+v", cfg)
	}
}

func TestEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.env")
	data := "SNAKE_MAX_SPEED=12.5\nSNAKE_AUTOPILOT=qtable\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("SNAKE_MAX_SPEED")
		os.Unsetenv("SNAKE_AUTOPILOT")
	})

	cfg, err := Load([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxSpeed != 12.5 || cfg.Autopilot != PilotQTable {
		t.Fatalf("env file not applied: %+v", cfg)
	}
}

func TestMissingEnvFileIsFine(t *testing.T) {
	if _, err := Load([]string{"-env", filepath.Join(t.TempDir(), "absent.env")}); err != nil {
		t.Fatal(err)
	}
}

func TestFoodWeights(t *testing.T) {
	cfg, err := Load([]string{"-env="})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FoodWeights.String() != manager.DefaultValueWeights.String() {
		t.Errorf("default weights = %v", cfg.FoodWeights)
	}

	t.Setenv("SNAKE_FOOD_WEIGHTS", "1:1,3:1")
	cfg, err = Load([]string{"-env="})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FoodWeights.String() != "1:1,3:1" {
		t.Errorf("env weights = %v", cfg.FoodWeights)
	}

	cfg, err = Load([]string{"-env=", "-food-weights", "2:1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.FoodWeights) != 1 || cfg.FoodWeights[0] != (manager.ValueWeight{Value: 2, Weight: 1}) {
		t.Errorf("flag weights = %v", cfg.FoodWeights)
	}

	for _, bad := range []string{"4:1", "1:-1", "1", "1:0", "1:1,1:2", "x:1"} {
		if _, err := Load([]string{"-env=", "-food-weights", bad}); err == nil {
			t.Errorf("accepted food weights %q", bad)
		}
	}
}

func TestBadEnvironmentValue(t *testing.T) {
	t.Setenv("SNAKE_FPS", "fast")
	if _, err := Load([]string{"-env="}); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ui", func(c *Config) { c.UI = "web" }},
		{"autopilot", func(c *Config) { c.Autopilot = "oracle" }},
		{"small grid", func(c *Config) { c.GridSize = 4 }},
		{"big grid", func(c *Config) { c.GridSize = 200 }},
		{"headless human", func(c *Config) { c.UI = UIHeadless }},
		{"speed cap", func(c *Config) { c.MaxSpeed = 0 }},
		{"episodes", func(c *Config) { c.TrainEpisodes = -1 }},
		{"training without autopilot", func(c *Config) { c.TrainEpisodes = 10 }},
		{"fps", func(c *Config) { c.FPS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
