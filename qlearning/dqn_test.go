package qlearning

import (
	"path/filepath"
	"testing"

	"golang.org/x/exp/rand"
)

func state(values ...float64) []float64 {
	s := make([]float64, InputFeatures)
	copy(s, values)
	return s
}

func TestForwardShape(t *testing.T) {
	dqn := NewDQN()
	out, err := dqn.Forward(append(state(1, 0, 0, 1), state(0, 1, 0, 0, 1)...))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2*OutputActions {
		t.Fatalf("got %d values, want %d", len(out), 2*OutputActions)
	}
	if _, err := dqn.Forward([]float64{1, 2}); err == nil {
		t.Fatal("accepted a truncated state")
	}
}

func TestReplayBufferWraps(t *testing.T) {
	b := NewReplayBuffer(4)
	for i := 0; i < 10; i++ {
		b.Add(Transition{Action: i})
	}
	if b.Len() != 4 {
		t.Fatalf("len = %d, want 4", b.Len())
	}
	rng := rand.New(rand.NewSource(1))
	for _, tr := range b.Sample(rng, 16) {
		if tr.Action < 6 {
			t.Fatalf("sampled an overwritten transition %d", tr.Action)
		}
	}
}

func TestTrainingMovesTowardTarget(t *testing.T) {
	a := NewAgent(0.01, Gamma, 3)
	s := state(1, 0, 0, 1)

	before, err := a.QValues(s)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		if err := a.Update(s, 1, 5, s, true); err != nil {
			t.Fatal(err)
		}
	}
	after, err := a.QValues(s)
	if err != nil {
		t.Fatal(err)
	}
	if abs(after[1]-5) >= abs(before[1]-5) {
		t.Fatalf("q(straight) went from %v to %v, target 5", before[1], after[1])
	}
}

func TestEpsilonDecays(t *testing.T) {
	a := NewAgent(LearningRate, Gamma, 1)
	prev := a.Epsilon
	for i := 0; i < 1000; i++ {
		a.IncrementEpisode()
		if a.Epsilon > prev {
			t.Fatalf("epsilon grew at episode %d", i)
		}
		prev = a.Epsilon
	}
	if a.Epsilon != MinEpsilon {
		t.Fatalf("epsilon = %v, want the floor %v", a.Epsilon, MinEpsilon)
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), WeightsFile)
	a := NewAgent(LearningRate, Gamma, 1)
	if err := a.SaveWeights(path); err != nil {
		t.Fatal(err)
	}

	b := NewAgent(LearningRate, Gamma, 2)
	if err := b.LoadWeights(path); err != nil {
		t.Fatal(err)
	}
	s := state(0, 1, 1, 0, 0, 1)
	qa, _ := a.QValues(s)
	qb, _ := b.QValues(s)
	for i := range qa {
		if qa[i] != qb[i] {
			t.Fatalf("q-values differ after reload: %v vs %v", qa, qb)
		}
	}

	if err := b.LoadWeights(filepath.Join(t.TempDir(), "missing.gob")); err != nil {
		t.Fatalf("missing file: %v", err)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
