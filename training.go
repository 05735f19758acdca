package main

import (
	"log"
	"sync"
	"time"

	"snake-arcade/ai"
	"snake-arcade/game"
	"snake-arcade/game/types"
	"snake-arcade/stats"
)

const (
	saveEvery       = 100 // episodes between automatic model saves
	saveAttempts    = 3
	defaultMaxSteps = 5000 // cap per episode so a looping pilot cannot stall training
)

// Trainer plays headless episodes with a pilot, driving the engine tick by
// tick without a pacer. It can run synchronously or in its own goroutine
// next to a game being played, as long as it has a pilot of its own.
type Trainer struct {
	cfg      game.Config
	pilot    ai.Pilot
	stats    *stats.GameStats
	maxSteps int

	controlChan chan struct{}
	wg          sync.WaitGroup
	mutex       sync.RWMutex
	isTraining  bool

	bestScore    int
	totalScore   int
	episodeCount int
}

func NewTrainer(cfg game.Config, pilot ai.Pilot, gameStats *stats.GameStats) *Trainer {
	return &Trainer{
		cfg:         cfg,
		pilot:       pilot,
		stats:       gameStats,
		maxSteps:    defaultMaxSteps,
		controlChan: make(chan struct{}, 1),
	}
}

// Train runs n episodes and saves the model at the end
func (t *Trainer) Train(n int) {
	for i := 0; i < n; i++ {
		t.RunEpisode()
	}
	t.save()
}

// RunEpisode plays one episode to death or the step cap and returns its score
func (t *Trainer) RunEpisode() int {
	e := game.NewEngine(t.cfg)

	t.mutex.RLock()
	e.SetHighScore(t.bestScore)
	t.mutex.RUnlock()

	for step := 0; step < t.maxSteps; step++ {
		dir := t.pilot.Decide(e.State())
		e.Apply(types.CommandFor(dir))
		prev := e.State()
		outcome := e.Tick()
		t.pilot.Observe(prev, dir, e.State(), outcome)
		if outcome.Kind == types.OutcomeDied {
			break
		}
	}
	t.pilot.EndEpisode()

	final := e.State()
	end := final.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	if t.stats != nil && !final.StartTime.IsZero() {
		t.stats.AddGame(final.Score, final.StartTime, end)
	}
	t.updateStats(final.Score)
	return final.Score
}

func (t *Trainer) updateStats(score int) {
	t.mutex.Lock()
	t.totalScore += score
	if score > t.bestScore {
		t.bestScore = score
	}
	t.episodeCount++
	episode := t.episodeCount
	t.mutex.Unlock()

	if episode%saveEvery == 0 {
		log.Printf("Training: episode %d, best score %d, average %.2f", episode, t.BestScore(), t.AverageScore())
		t.save()
	}
}

// save retries a few times; model files may be briefly held by another writer
func (t *Trainer) save() {
	var err error
	for attempts := 0; attempts < saveAttempts; attempts++ {
		if err = t.pilot.Save(); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		log.Printf("Training: failed to save model after %d attempts: %v", saveAttempts, err)
		return
	}
	if t.stats != nil {
		if err := t.stats.SaveToFile(); err != nil {
			log.Printf("Training: failed to save stats: %v", err)
		}
	}
}

// Start runs up to limit episodes in the background, or until Stop is
// called when limit is zero. The model is saved when the loop ends.
func (t *Trainer) Start(limit int) {
	t.mutex.Lock()
	if t.isTraining {
		t.mutex.Unlock()
		return
	}
	t.isTraining = true
	target := t.episodeCount + limit
	t.mutex.Unlock()

	// a stop left over from a run that finished on its own
	select {
	case <-t.controlChan:
	default:
	}

	t.wg.Add(1)
	go t.trainingLoop(limit > 0, target)
}

// Stop ends the background loop after the running episode and waits for it
func (t *Trainer) Stop() {
	t.mutex.Lock()
	if !t.isTraining {
		t.mutex.Unlock()
		return
	}
	t.isTraining = false
	t.mutex.Unlock()

	t.controlChan <- struct{}{}
	t.wg.Wait()
}

func (t *Trainer) trainingLoop(bounded bool, target int) {
	defer t.wg.Done()
	for {
		select {
		case <-t.controlChan:
			t.save()
			return
		default:
		}
		if bounded && t.Episodes() >= target {
			log.Printf("Training: finished %d episodes in the background", t.Episodes())
			t.save()
			return
		}
		t.RunEpisode()
	}
}

func (t *Trainer) Episodes() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.episodeCount
}

func (t *Trainer) BestScore() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.bestScore
}

func (t *Trainer) AverageScore() float64 {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if t.episodeCount == 0 {
		return 0
	}
	return float64(t.totalScore) / float64(t.episodeCount)
}
