package manager

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"snake-arcade/game/types"

	"github.com/pkg/errors"
)

// HighScoreFile is the store document name inside the data directory
const HighScoreFile = "highscores.json"

// PersistenceStore loads and saves the process-wide high score
type PersistenceStore interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
}

// HistoryRecorder receives every finished game
type HistoryRecorder interface {
	AddGame(score int, startTime, endTime time.Time)
	SaveToFile() error
}

// HighScoreKey returns the store key for a board variant. The default board
// keeps the historical key so existing scores survive.
func HighScoreKey(gridSize int) string {
	if gridSize == types.DefaultGridSize {
		return "snake_hiscore"
	}
	return fmt.Sprintf("snake_hiscore_%d", gridSize)
}

// FileStore keeps high scores as a JSON object of key -> score
type FileStore struct {
	path string
	key  string
	mu   sync.Mutex
}

func NewFileStore(dataDir string, gridSize int) *FileStore {
	return &FileStore{
		path: filepath.Join(dataDir, HighScoreFile),
		key:  HighScoreKey(gridSize),
	}
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) readAll() (map[string]int, error) {
	scores := make(map[string]int)
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return scores, nil
		}
		return nil, errors.Wrapf(err, "read %s", fs.path)
	}
	if len(data) == 0 {
		return scores, nil
	}
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, errors.Wrapf(err, "decode %s", fs.path)
	}
	return scores, nil
}

func (fs *FileStore) LoadHighScore() (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	scores, err := fs.readAll()
	if err != nil {
		return 0, err
	}
	if v := scores[fs.key]; v > 0 {
		return v, nil
	}
	return 0, nil
}

func (fs *FileStore) SaveHighScore(score int) error {
	if score < 0 {
		return errors.Errorf("negative high score %d", score)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	scores, err := fs.readAll()
	if err != nil {
		return err
	}
	scores[fs.key] = score

	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode high scores")
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return errors.Wrap(err, "create data directory")
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	return errors.Wrap(os.Rename(tmp, fs.path), "replace high score file")
}

// StateManager tracks the high score across runs and forwards finished
// games to the history. Store failures are logged and never propagate.
type StateManager struct {
	store     PersistenceStore
	history   HistoryRecorder
	highScore int
}

func NewStateManager(store PersistenceStore, history HistoryRecorder) *StateManager {
	sm := &StateManager{
		store:   store,
		history: history,
	}
	if store != nil {
		hs, err := store.LoadHighScore()
		if err != nil {
			log.Printf("Warning: could not load high score: %v", err)
		}
		sm.highScore = hs
	}
	return sm
}

func (sm *StateManager) GetHighScore() int {
	return sm.highScore
}

// RecordGame is called when a run ends. The score is saved only when it is
// strictly greater than the best one known; the return value reports that.
func (sm *StateManager) RecordGame(score int, startTime, endTime time.Time) bool {
	if sm.history != nil {
		sm.history.AddGame(score, startTime, endTime)
		if err := sm.history.SaveToFile(); err != nil {
			log.Printf("Warning: could not save score history: %v", err)
		}
	}

	if score <= sm.highScore {
		return false
	}
	sm.highScore = score
	if sm.store != nil {
		if err := sm.store.SaveHighScore(score); err != nil {
			log.Printf("Warning: could not save high score: %v", err)
		}
	}
	return true
}
