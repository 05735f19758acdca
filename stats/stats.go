package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	StatsFile = "stats.json"
	GroupSize = 100 // records folded into one group per compression level
)

// GameStats keeps every finished run and folds old ones into groups so the
// history file stays small. It satisfies manager.HistoryRecorder.
type GameStats struct {
	Games []GameRecord
	path  string
	mutex sync.RWMutex
}

// GameRecord is either a single run (CompressionIndex 0) or a group of runs.
type GameRecord struct {
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Score            int       `json:"score"`
	CompressionIndex int       `json:"compressionIndex"`
	GamesCount       int       `json:"gamesCount"`
	AverageScore     float64   `json:"averageScore"`
	MedianScore      float64   `json:"medianScore"`
	MaxScore         int       `json:"maxScore"`
	MinScore         int       `json:"minScore"`
	AverageDuration  float64   `json:"averageDuration"`
	MaxDuration      float64   `json:"maxDuration"`
	MinDuration      float64   `json:"minDuration"`
}

// NewGameStats opens the history kept in dataDir. An empty dataDir keeps the
// history in memory only.
func NewGameStats(dataDir string) (*GameStats, error) {
	s := &GameStats{
		Games: make([]GameRecord, 0),
	}
	if dataDir != "" {
		s.path = filepath.Join(dataDir, StatsFile)
	}
	if err := s.loadFromFile(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *GameStats) AddGame(score int, startTime, endTime time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	duration := endTime.Sub(startTime).Seconds()
	if duration < 0 {
		duration = 0
	}
	s.Games = append(s.Games, GameRecord{
		StartTime:       startTime,
		EndTime:         endTime,
		Score:           score,
		GamesCount:      1,
		AverageScore:    float64(score),
		MedianScore:     float64(score),
		MaxScore:        score,
		MinScore:        score,
		AverageDuration: duration,
		MaxDuration:     duration,
		MinDuration:     duration,
	})

	s.groupGames()
}

// groupGames folds every full block of GroupSize records of one compression
// level into a single record of the next level.
func (s *GameStats) groupGames() {
	sort.SliceStable(s.Games, func(i, j int) bool {
		if s.Games[i].CompressionIndex != s.Games[j].CompressionIndex {
			return s.Games[i].CompressionIndex < s.Games[j].CompressionIndex
		}
		return s.Games[i].StartTime.Before(s.Games[j].StartTime)
	})

	for level := 0; ; level++ {
		var records, others []GameRecord
		for _, g := range s.Games {
			if g.CompressionIndex == level {
				records = append(records, g)
			} else {
				others = append(others, g)
			}
		}
		if len(records) < GroupSize {
			break
		}

		var folded []GameRecord
		for i := 0; i < len(records); i += GroupSize {
			end := i + GroupSize
			if end > len(records) {
				folded = append(folded, records[i:]...)
				break
			}
			folded = append(folded, fold(records[i:end], level+1))
		}
		s.Games = append(others, folded...)
	}
}

func fold(group []GameRecord, level int) GameRecord {
	out := GameRecord{
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		CompressionIndex: level,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
		MaxDuration:      group[0].MaxDuration,
		MinDuration:      group[0].MinDuration,
	}

	var totalScore, totalDuration float64
	medians := make([]float64, 0, len(group))
	for _, g := range group {
		out.MaxScore = max(out.MaxScore, g.MaxScore)
		out.MinScore = min(out.MinScore, g.MinScore)
		out.MaxDuration = max(out.MaxDuration, g.MaxDuration)
		out.MinDuration = min(out.MinDuration, g.MinDuration)
		if g.StartTime.Before(out.StartTime) {
			out.StartTime = g.StartTime
		}
		if g.EndTime.After(out.EndTime) {
			out.EndTime = g.EndTime
		}
		totalScore += g.AverageScore * float64(g.GamesCount)
		totalDuration += g.AverageDuration * float64(g.GamesCount)
		out.GamesCount += g.GamesCount
		for i := 0; i < g.GamesCount; i++ {
			medians = append(medians, g.MedianScore)
		}
	}

	out.AverageScore = totalScore / float64(out.GamesCount)
	out.AverageDuration = totalDuration / float64(out.GamesCount)
	out.MedianScore = median(medians)
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// GetStats returns a copy of the current records
func (s *GameStats) GetStats() []GameRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	games := make([]GameRecord, len(s.Games))
	copy(games, s.Games)
	return games
}

func (s *GameStats) GetAverageScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var total float64
	var games int
	for _, g := range s.Games {
		total += g.AverageScore * float64(g.GamesCount)
		games += g.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

func (s *GameStats) GetMedianScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	values := make([]float64, 0)
	for _, g := range s.Games {
		for i := 0; i < g.GamesCount; i++ {
			values = append(values, g.MedianScore)
		}
	}
	return median(values)
}

func (s *GameStats) GetMaxScore() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	best := 0
	for _, g := range s.Games {
		best = max(best, g.MaxScore)
	}
	return best
}

func (s *GameStats) GetGamesPlayed() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, g := range s.Games {
		total += g.GamesCount
	}
	return total
}

// GetAverageDuration is the mean run length in seconds
func (s *GameStats) GetAverageDuration() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var total float64
	var games int
	for _, g := range s.Games {
		total += g.AverageDuration * float64(g.GamesCount)
		games += g.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

func (s *GameStats) GetMaxDuration() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var longest float64
	for _, g := range s.Games {
		longest = max(longest, g.MaxDuration)
	}
	return longest
}

// RecentScores returns up to n average scores, oldest first, for the HUD graph
func (s *GameStats) RecentScores(n int) []float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	start := 0
	if len(s.Games) > n {
		start = len(s.Games) - n
	}
	scores := make([]float64, 0, len(s.Games)-start)
	for _, g := range s.Games[start:] {
		scores = append(scores, g.AverageScore)
	}
	return scores
}

func (s *GameStats) SaveToFile() error {
	if s.path == "" {
		return nil
	}

	s.mutex.RLock()
	data, err := json.Marshal(s.Games)
	s.mutex.RUnlock()
	if err != nil {
		return errors.Wrap(err, "marshal stats")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "create data directory")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", s.path)
	}
	return nil
}

func (s *GameStats) loadFromFile() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", s.path)
	}
	if err := json.Unmarshal(data, &s.Games); err != nil {
		s.Games = make([]GameRecord, 0)
		return errors.Wrapf(err, "decode %s", s.path)
	}
	return nil
}
