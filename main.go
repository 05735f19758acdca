package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"snake-arcade/ai"
	"snake-arcade/config"
	"snake-arcade/game"
	"snake-arcade/game/manager"
	"snake-arcade/stats"
	"snake-arcade/term"
	"snake-arcade/ui"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	defaultHeadlessEpisodes = 1000
	logFile                 = "snake.log"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "snake: %v\n", err)
		os.Exit(2)
	}
	log.SetPrefix("[snake] ")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}
	if cfg.UI == config.UITerm {
		// the terminal belongs to the board; logs go to a file
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	gameStats, err := stats.NewGameStats(cfg.DataDir)
	if err != nil {
		log.Printf("Starting with empty stats: %v", err)
	}
	defer func() {
		if err := gameStats.SaveToFile(); err != nil {
			log.Printf("Failed to save stats: %v", err)
		}
	}()

	gcfg := gameConfig(cfg)
	pilot := newPilot(cfg)

	if cfg.UI == config.UIHeadless {
		episodes := cfg.TrainEpisodes
		if episodes == 0 {
			episodes = defaultHeadlessEpisodes
		}
		trainer := NewTrainer(gcfg, pilot, gameStats)
		trainer.Train(episodes)
		log.Printf("Trained %d episodes: best %d, average %.2f", trainer.Episodes(), trainer.BestScore(), trainer.AverageScore())
		return
	}

	// background training owns the model files; the on-screen pilot only plays
	learn := true
	var trainer *Trainer
	if pilot != nil && cfg.TrainEpisodes > 0 {
		log.Printf("Training %s autopilot for %d episodes in the background", cfg.Autopilot, cfg.TrainEpisodes)
		trainer = NewTrainer(gcfg, newPilot(cfg), nil)
		trainer.Start(cfg.TrainEpisodes)
		learn = false
	}

	store := manager.NewFileStore(cfg.DataDir, cfg.GridSize)
	log.Printf("High scores in %s", store.Path())
	sm := manager.NewStateManager(store, gameStats)
	g := game.NewGame(gcfg)
	g.Engine().SetHighScore(sm.GetHighScore())
	g.Subscribe(game.PersistOnDeath(sm))

	var driver *ai.Driver
	autopilot := ""
	if pilot != nil {
		driver = ai.NewDriver(pilot, learn)
		g.Subscribe(driver)
		autopilot = cfg.Autopilot
	}
	log.Printf("Session %s: %s on a %dx%d board", g.UUID, cfg.Difficulty, cfg.GridSize, cfg.GridSize)

	switch cfg.UI {
	case config.UITerm:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := term.Run(ctx, g, term.Options{Driver: driver, Autopilot: autopilot, Muted: cfg.Muted}); err != nil {
			log.Printf("Terminal session failed: %v", err)
		}
	default:
		runWindow(cfg, g, driver, autopilot, gameStats)
	}

	if trainer != nil {
		trainer.Stop()
		log.Printf("Background training ran %d episodes: best %d, average %.2f", trainer.Episodes(), trainer.BestScore(), trainer.AverageScore())
	} else if pilot != nil {
		if err := pilot.Save(); err != nil {
			log.Printf("Failed to save autopilot: %v", err)
		}
	}
}

func gameConfig(cfg config.Config) game.Config {
	gcfg := game.DefaultConfig()
	gcfg.GridSize = cfg.GridSize
	gcfg.Difficulty = cfg.Difficulty
	gcfg.Speed.Increment = cfg.SpeedIncrement
	gcfg.Speed.Max = cfg.MaxSpeed
	gcfg.Food.MaxAttempts = cfg.MaxAttempts
	gcfg.Food.Seed = cfg.Seed
	gcfg.Food.Weights = cfg.FoodWeights
	return gcfg
}

func newPilot(cfg config.Config) ai.Pilot {
	switch cfg.Autopilot {
	case config.PilotQTable:
		return ai.NewPopulation(cfg.DataDir, ai.DefaultGenerationSize, cfg.Seed)
	case config.PilotDQN:
		return ai.NewDQNPilot(cfg.DataDir, cfg.Seed)
	}
	return nil
}

func runWindow(cfg config.Config, g *game.Game, driver *ai.Driver, autopilot string, gameStats *stats.GameStats) {
	rl.InitWindow(1280, 800, "Snake")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.FPS))

	audio := ui.NewAudio(cfg.Muted)
	defer audio.Close()
	g.Subscribe(audio)

	renderer := ui.NewRenderer()
	input := ui.NewInput()
	start := time.Now()

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		for _, ev := range input.Poll(renderer.Buttons()) {
			switch {
			case ev.ToggleMute:
				audio.ToggleMute()
			case ev.SetDifficulty:
				g.SetDifficulty(ev.Difficulty)
			default:
				g.Apply(ev.Cmd)
			}
		}
		if driver != nil {
			driver.Steer(g)
		}
		g.Frame(time.Since(start))
		renderer.Draw(g.Snapshot(), ui.View{Muted: audio.Muted(), Autopilot: autopilot, Stats: gameStats})
	}
}
