package game

import (
	"testing"
	"time"

	"snake-arcade/game/types"
)

func newRunningPacer(t *testing.T) (*Pacer, *Engine) {
	t.Helper()
	e := newTestEngine(t, nil)
	clearFood(e)
	e.SetHeading(types.Up)
	return NewPacer(e), e
}

func TestPacerInterval(t *testing.T) {
	p, e := newRunningPacer(t)
	want := time.Duration(float64(time.Second) / e.Speed())
	if got := p.Interval(); got != want {
		t.Fatalf("interval = %v, want %v", got, want)
	}
}

func TestPacerTicksAtSpeed(t *testing.T) {
	p, _ := newRunningPacer(t)
	interval := p.Interval()

	samples := []struct {
		at   time.Duration
		tick bool
	}{
		{0, false}, // baseline
		{interval / 2, false},
		{interval - time.Millisecond, false},
		{interval, true},
		{interval + interval/2, false},
		{2 * interval, true},
	}
	for _, s := range samples {
		_, ticked := p.Sample(s.at)
		if ticked != s.tick {
			t.Fatalf("sample at %v: ticked = %v, want %v", s.at, ticked, s.tick)
		}
	}
}

func TestPacerDropsMissedTicks(t *testing.T) {
	p, e := newRunningPacer(t)
	interval := p.Interval()

	p.Sample(0)
	// a long frame: five intervals elapsed but only one tick runs
	out, ticked := p.Sample(5 * interval)
	if !ticked || out.Kind != types.OutcomeMoved {
		t.Fatalf("long frame: ticked=%v outcome=%v", ticked, out)
	}
	if _, ticked := p.Sample(5*interval + time.Millisecond); ticked {
		t.Fatal("pacer caught up on missed ticks")
	}
	if got := e.State().Head(); got != (types.Cell{X: 9, Y: 8}) {
		t.Fatalf("head = %v, want one step up", got)
	}
}

func TestPacerPauseDoesNotAccumulate(t *testing.T) {
	p, e := newRunningPacer(t)
	interval := p.Interval()

	p.Sample(0)
	e.Pause()
	for at := interval; at <= 10*time.Second; at += interval {
		if _, ticked := p.Sample(at); ticked {
			t.Fatalf("ticked while paused at %v", at)
		}
	}
	resumeAt := 10 * time.Second
	p.Sample(resumeAt)
	e.Resume()

	if _, ticked := p.Sample(resumeAt + time.Millisecond); ticked {
		t.Fatal("burst tick right after resume")
	}
	if _, ticked := p.Sample(resumeAt + interval); !ticked {
		t.Fatal("no tick one interval after resume")
	}
}

func TestPacerRebaselinesAfterReset(t *testing.T) {
	p, e := newRunningPacer(t)
	interval := p.Interval()

	p.Sample(0)
	e.Apply(types.CmdRestart)
	e.SetHeading(types.Up)

	if _, ticked := p.Sample(3 * interval); ticked {
		t.Fatal("tick scheduled before the reset fired after it")
	}
	if _, ticked := p.Sample(4 * interval); !ticked {
		t.Fatal("no tick one interval into the new run")
	}
}

func TestPacerDropsScheduleOnDifficultyChange(t *testing.T) {
	p, e := newRunningPacer(t)
	interval := p.Interval()

	p.Sample(0)
	p.Sample(interval / 2)
	e.SetDifficulty(types.Hard)
	e.SetHeading(types.Up)
	hard := p.Interval()

	// the old run was due at interval; the new one starts counting here
	if _, ticked := p.Sample(interval); ticked {
		t.Fatal("tick from the previous run fired after the reset")
	}
	if _, ticked := p.Sample(interval + hard - time.Millisecond); ticked {
		t.Fatal("new run ticked before a full interval")
	}
	out, ticked := p.Sample(interval + hard)
	if !ticked || (out.Kind != types.OutcomeMoved && out.Kind != types.OutcomeAte) {
		t.Fatalf("new run: ticked=%v outcome=%v", ticked, out)
	}
	if got := e.State().Head(); got != (types.Cell{X: 9, Y: 8}) {
		t.Fatalf("head = %v, want one step up from the fresh centre", got)
	}
}

func TestPacerFollowsSpeedChanges(t *testing.T) {
	p, e := newRunningPacer(t)
	before := p.Interval()
	e.speed = e.speed * 2
	if got := p.Interval(); got >= before {
		t.Fatalf("interval %v did not shrink from %v", got, before)
	}
}
