package ai

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"snake-arcade/game"
	"snake-arcade/game/types"
)

func TestPopulationBreedsAfterGeneration(t *testing.T) {
	p := NewPopulation("", 3, 11)
	first := p.Current()

	for i := 0; i < 3; i++ {
		if p.Generation != 0 {
			t.Fatalf("generation advanced early at episode %d", i)
		}
		p.episode = i * 10
		p.EndEpisode()
	}
	if p.Generation != 1 {
		t.Fatalf("generation = %d, want 1", p.Generation)
	}
	if p.Current() == first {
		t.Fatal("agent was not replaced")
	}
	if len(p.results) != 0 {
		t.Fatal("results not cleared for the new generation")
	}
}

func TestPopulationInheritsBestTable(t *testing.T) {
	p := NewPopulation("", 10, 5)
	key := StateKey(Observation{})
	p.Current().QTable[key] = map[Action]float64{Up: 0, Right: 100, Down: 0, Left: 0}
	p.episode = 8
	p.EndEpisode()

	if got := p.Current().QTable[key][Right]; got < 99 || got > 101 {
		t.Fatalf("inherited value = %v, want about 100", got)
	}
}

func TestPopulationSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	p := NewPopulation(dir, 2, 5)
	key := StateKey(Observation{FoodDir: [2]int{0, 1}})
	p.Current().QTable[key] = map[Action]float64{Down: 3}
	p.EndEpisode()
	if err := p.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, PopulationFile)); err != nil {
		t.Fatal(err)
	}

	again := NewPopulation(dir, 2, 6)
	if again.Current().QTable[key][Down] != 3 {
		t.Fatalf("reloaded table = %v", again.Current().QTable[key])
	}
}

func TestBreedCoversBothParents(t *testing.T) {
	mother := NewQLearning("m", QTable{"a": {Up: 1}}, 0, 1)
	father := NewQLearning("f", QTable{"b": {Down: -1}}, 0, 1)
	child := Breed(mother, father, 3)
	if _, ok := child.QTable["a"]; !ok {
		t.Error("mother's state missing")
	}
	if _, ok := child.QTable["b"]; !ok {
		t.Error("father's state missing")
	}
}

type scriptedPilot struct {
	dir       types.Direction
	decisions int
	observed  int
	episodes  int
	saves     int
}

func (p *scriptedPilot) Decide(game.Snapshot) types.Direction {
	p.decisions++
	return p.dir
}

func (p *scriptedPilot) Observe(game.Snapshot, types.Direction, game.Snapshot, types.Outcome) {
	p.observed++
}

func (p *scriptedPilot) EndEpisode() { p.episodes++ }

func (p *scriptedPilot) Save() error { p.saves++; return nil }

func TestDriverPlaysThroughTheCommandPath(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Food.Seed = 9
	g := game.NewGame(cfg)

	pilot := &scriptedPilot{dir: types.UP}
	driver := NewDriver(pilot, true)
	g.Subscribe(driver)

	interval := g.Pacer().Interval()
	for i := 0; i < 40; i++ {
		driver.Steer(g)
		g.Frame(time.Duration(i) * interval)
	}

	if pilot.episodes == 0 {
		t.Fatal("the snake never reached the wall")
	}
	if pilot.observed == 0 {
		t.Fatal("the pilot never observed an outcome")
	}
	if pilot.decisions > 41 {
		t.Fatalf("%d decisions for 40 frames", pilot.decisions)
	}
}

func TestPlayOnlyDriverLeavesModelAlone(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Food.Seed = 9
	g := game.NewGame(cfg)

	pilot := &scriptedPilot{dir: types.UP}
	driver := NewDriver(pilot, false)
	g.Subscribe(driver)

	interval := g.Pacer().Interval()
	for i := 0; i < 40; i++ {
		driver.Steer(g)
		g.Frame(time.Duration(i) * interval)
	}

	if pilot.episodes == 0 {
		t.Fatal("the snake never reached the wall")
	}
	if pilot.observed != 0 || pilot.saves != 0 {
		t.Fatalf("play-only driver trained the pilot: observed %d, saved %d", pilot.observed, pilot.saves)
	}
}

func TestRelativeActions(t *testing.T) {
	for _, cur := range []types.Direction{types.UP, types.RIGHT, types.DOWN, types.LEFT} {
		for _, a := range []int{TurnLeft, Straight, TurnRight} {
			if got := absoluteToRelative(cur, relativeToAbsolute(cur, a)); got != a {
				t.Errorf("heading %v action %d round-trips to %d", cur, a, got)
			}
		}
	}
}
