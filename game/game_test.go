package game

import (
	"testing"
	"time"

	"snake-arcade/game/types"
)

type recordedGame struct {
	score      int
	start, end time.Time
}

type fakeScoreboard struct {
	games []recordedGame
}

func (f *fakeScoreboard) RecordGame(score int, start, end time.Time) bool {
	f.games = append(f.games, recordedGame{score, start, end})
	return true
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Food.Seed = 3
	g := NewGame(cfg)
	clearFood(g.Engine())
	return g
}

func TestGameFansOutOutcomes(t *testing.T) {
	g := newTestGame(t)
	var got []types.OutcomeKind
	g.Subscribe(ListenerFunc(func(o types.Outcome, s Snapshot) {
		got = append(got, o.Kind)
	}))

	g.Frame(0)
	g.Apply(types.CmdLeft)
	interval := g.Pacer().Interval()
	for i := 1; i <= 3; i++ {
		g.Frame(time.Duration(i) * interval)
	}

	if len(got) != 3 {
		t.Fatalf("listener saw %v, want three outcomes", got)
	}
	for _, k := range got {
		if k == types.OutcomeIdle || k == types.OutcomeDied {
			t.Fatalf("unexpected outcome %v", k)
		}
	}
}

func TestGameSkipsIdleOutcomes(t *testing.T) {
	g := newTestGame(t)
	calls := 0
	g.Subscribe(ListenerFunc(func(types.Outcome, Snapshot) { calls++ }))

	g.Frame(0)
	interval := g.Pacer().Interval()
	for i := 1; i <= 5; i++ {
		g.Frame(time.Duration(i) * interval)
	}
	if calls != 0 {
		t.Fatalf("listener called %d times for an idle board", calls)
	}
}

func TestPersistOnDeath(t *testing.T) {
	g := newTestGame(t)
	sb := &fakeScoreboard{}
	g.Subscribe(PersistOnDeath(sb))

	g.Frame(0)
	g.Apply(types.CmdUp)
	interval := g.Pacer().Interval()
	for i := 1; i <= types.DefaultGridSize; i++ {
		g.Frame(time.Duration(i) * interval)
		if g.Snapshot().Phase == types.Over {
			break
		}
	}

	if g.Snapshot().Phase != types.Over {
		t.Fatal("snake did not reach the wall")
	}
	if len(sb.games) != 1 {
		t.Fatalf("scoreboard got %d games, want 1", len(sb.games))
	}
	rec := sb.games[0]
	if rec.score != g.Snapshot().Score {
		t.Errorf("recorded score %d, want %d", rec.score, g.Snapshot().Score)
	}
	if rec.start.IsZero() || rec.end.Before(rec.start) {
		t.Errorf("bad run times: %v -> %v", rec.start, rec.end)
	}
}

func TestGameDifficultyResets(t *testing.T) {
	g := newTestGame(t)
	g.Apply(types.CmdRight)
	g.SetDifficulty(types.Easy)

	s := g.Snapshot()
	if s.Difficulty != types.Easy || s.Phase != types.Idle || len(s.Foods) != 2 {
		t.Fatalf("unexpected state after difficulty change: %+v", s)
	}
}
