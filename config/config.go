package config

import (
	"flag"
	"io"
	"os"
	"strconv"
	"strings"

	"snake-arcade/game/manager"
	"snake-arcade/game/types"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Front-ends
const (
	UIRaylib   = "raylib"
	UITerm     = "term"
	UIHeadless = "headless"
)

// Autopilots
const (
	PilotNone   = "none"
	PilotQTable = "qtable"
	PilotDQN    = "dqn"
)

const envPrefix = "SNAKE_"

type Config struct {
	UI             string
	Difficulty     types.Difficulty
	GridSize       int
	Seed           uint64
	DataDir        string
	Autopilot      string
	TrainEpisodes  int
	SpeedIncrement float64
	MaxSpeed       float64
	MaxAttempts    int
	FoodWeights    manager.ValueWeights
	Muted          bool
	FPS            int
	EnvFile        string
}

func Default() Config {
	return Config{
		UI:             UIRaylib,
		Difficulty:     types.Medium,
		GridSize:       types.DefaultGridSize,
		DataDir:        "data",
		Autopilot:      PilotNone,
		SpeedIncrement: 1,
		MaxSpeed:       20,
		MaxAttempts:    300,
		FoodWeights:    manager.DefaultValueWeights,
		FPS:            60,
		EnvFile:        ".env",
	}
}

// Load builds the configuration from defaults, an optional .env file,
// SNAKE_* environment variables and finally the command line.
func Load(args []string) (Config, error) {
	cfg := Default()

	envFile := cfg.EnvFile
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, "-env="); ok {
			envFile = v
		} else if a == "-env" && i+1 < len(args) {
			envFile = args[i+1]
		}
	}
	if envFile != "" {
		// godotenv never overrides variables already set in the environment
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return cfg, errors.Wrapf(err, "load %s", envFile)
		}
	}
	cfg.EnvFile = envFile

	if err := cfg.fromEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.fromFlags(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) fromEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = strings.ToLower(strings.TrimSpace(v))
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "%s%s", envPrefix, name)
		}
		*dst = n
		return nil
	}
	float := func(name string, dst *float64) error {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return errors.Wrapf(err, "%s%s", envPrefix, name)
		}
		*dst = f
		return nil
	}

	str("UI", &c.UI)
	str("AUTOPILOT", &c.Autopilot)
	if v, ok := lookup(envPrefix + "DATA_DIR"); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(envPrefix + "DIFFICULTY"); ok {
		d, err := types.ParseDifficulty(v)
		if err != nil {
			return errors.Wrap(err, envPrefix+"DIFFICULTY")
		}
		c.Difficulty = d
	}
	if v, ok := lookup(envPrefix + "SEED"); ok && v != "" {
		s, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return errors.Wrap(err, envPrefix+"SEED")
		}
		c.Seed = s
	}
	if v, ok := lookup(envPrefix + "FOOD_WEIGHTS"); ok && v != "" {
		w, err := manager.ParseValueWeights(v)
		if err != nil {
			return errors.Wrap(err, envPrefix+"FOOD_WEIGHTS")
		}
		c.FoodWeights = w
	}
	if v, ok := lookup(envPrefix + "MUTED"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(err, envPrefix+"MUTED")
		}
		c.Muted = b
	}

	for _, err := range []error{
		num("GRID_SIZE", &c.GridSize),
		num("TRAIN_EPISODES", &c.TrainEpisodes),
		num("MAX_ATTEMPTS", &c.MaxAttempts),
		num("FPS", &c.FPS),
		float("SPEED_INCREMENT", &c.SpeedIncrement),
		float("MAX_SPEED", &c.MaxSpeed),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) fromFlags(args []string) error {
	fs := flag.NewFlagSet("snake", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	difficulty := c.Difficulty.String()
	weights := c.FoodWeights.String()
	fs.StringVar(&c.UI, "ui", c.UI, "front-end: raylib, term or headless")
	fs.StringVar(&difficulty, "difficulty", difficulty, "easy, medium or hard")
	fs.IntVar(&c.GridSize, "grid", c.GridSize, "board size in cells")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "RNG seed, 0 seeds from the clock")
	fs.StringVar(&c.DataDir, "data", c.DataDir, "directory for scores, stats and models")
	fs.StringVar(&c.Autopilot, "autopilot", c.Autopilot, "none, qtable or dqn")
	fs.IntVar(&c.TrainEpisodes, "train", c.TrainEpisodes, "training episodes, run in the background beside the raylib or term UI")
	fs.Float64Var(&c.SpeedIncrement, "speed-step", c.SpeedIncrement, "speed added every five points")
	fs.Float64Var(&c.MaxSpeed, "max-speed", c.MaxSpeed, "speed cap in ticks per second")
	fs.IntVar(&c.MaxAttempts, "attempts", c.MaxAttempts, "food placement attempts")
	fs.StringVar(&weights, "food-weights", weights, "food value weights as value:weight pairs")
	fs.BoolVar(&c.Muted, "mute", c.Muted, "start with sound off")
	fs.IntVar(&c.FPS, "fps", c.FPS, "render frame rate")
	fs.StringVar(&c.EnvFile, "env", c.EnvFile, "optional .env file")

	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "parse flags")
	}
	d, err := types.ParseDifficulty(difficulty)
	if err != nil {
		return err
	}
	c.Difficulty = d

	w, err := manager.ParseValueWeights(weights)
	if err != nil {
		return err
	}
	c.FoodWeights = w
	return nil
}

func (c Config) Validate() error {
	switch c.UI {
	case UIRaylib, UITerm, UIHeadless:
	default:
		return errors.Errorf("unknown ui %q", c.UI)
	}
	switch c.Autopilot {
	case PilotNone, PilotQTable, PilotDQN:
	default:
		return errors.Errorf("unknown autopilot %q", c.Autopilot)
	}
	if c.GridSize < types.MinGridSize || c.GridSize > types.MaxGridSize {
		return errors.Errorf("grid size %d outside [%d, %d]", c.GridSize, types.MinGridSize, types.MaxGridSize)
	}
	if c.UI == UIHeadless && c.Autopilot == PilotNone {
		return errors.New("headless mode needs an autopilot")
	}
	if c.SpeedIncrement < 0 || c.MaxSpeed <= 0 {
		return errors.Errorf("bad speed policy: step %v, cap %v", c.SpeedIncrement, c.MaxSpeed)
	}
	if c.TrainEpisodes < 0 {
		return errors.Errorf("negative training episodes %d", c.TrainEpisodes)
	}
	if c.TrainEpisodes > 0 && c.Autopilot == PilotNone {
		return errors.New("training needs an autopilot")
	}
	if c.FPS <= 0 {
		return errors.Errorf("fps must be positive, got %d", c.FPS)
	}
	return nil
}
