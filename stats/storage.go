// Package stats persists lightweight usage statistics for the audit service.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MonthlyStats aggregates audit activity for one calendar month.
type MonthlyStats struct {
	Audits           int       `json:"audits"`
	AnalyzerFailures int       `json:"analyzer_failures"`
	TotalDurationMs  float64   `json:"-"`
	AverageLoadMs    float64   `json:"average_load_ms"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Storage handles persistent storage of statistics, keyed by "YYYY-MM".
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
	log         *zap.Logger
}

// NewStorage creates a statistics store backed by a JSON file in dataDir.
func NewStorage(dataDir string, log *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
		log:         log,
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// save writes statistics to disk via a temp file followed by an atomic rename.
func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.flush()
		case <-ticker.C:
			s.flush()
		case <-s.done:
			return
		}
	}
}

// flush persists current statistics, logging failures so a full disk or a
// permissions problem does not go unnoticed.
func (s *Storage) flush() {
	if err := s.save(); err != nil {
		s.log.Error("failed to persist stats", zap.Error(err))
	}
}

func currentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals that a write to disk is needed. A full buffer means a
// write is already pending.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
	}
}

// RecordAudit registers one completed audit with its duration and how many
// of its analyzers failed.
func (s *Storage) RecordAudit(duration time.Duration, analyzerFailures int) {
	month := currentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	monthly, exists := s.stats[month]
	if !exists {
		monthly = &MonthlyStats{}
		s.stats[month] = monthly
	}

	monthly.Audits++
	monthly.AnalyzerFailures += analyzerFailures
	monthly.TotalDurationMs += float64(duration.Milliseconds())
	monthly.AverageLoadMs = monthly.TotalDurationMs / float64(monthly.Audits)
	monthly.LastUpdated = time.Now()

	if time.Since(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = time.Now()
	}
}

// GetCurrentStats returns statistics for the current month.
func (s *Storage) GetCurrentStats() MonthlyStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if monthly, exists := s.stats[currentMonth()]; exists {
		return *monthly
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns statistics for a specific "YYYY-MM" month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if monthly, exists := s.stats[yearMonth]; exists {
		return *monthly, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns every month with statistics, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}

// Cleanup drops statistics for everything except the current and previous
// month and persists the result.
func (s *Storage) Cleanup() {
	now := time.Now()
	current := now.Format("2006-01")
	previous := now.AddDate(0, -1, 0).Format("2006-01")

	s.mutex.Lock()
	for key := range s.stats {
		if key != current && key != previous {
			delete(s.stats, key)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
}

// Shutdown stops the background writer and flushes pending statistics.
func (s *Storage) Shutdown() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.save()
}
