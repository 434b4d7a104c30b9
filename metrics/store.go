package metrics

import (
	"sync"
	"time"
)

// degradedAfter is the number of consecutive completion failures after
// which the service reports itself degraded.
const degradedAfter = 3

// Store is a thread-safe in-memory record of recent generations with running
// aggregates.
//
// Usage:
//
//	store := NewStore(DefaultStoreConfig(), time.Now())
//	store.Record(rec)
//	snapshot := store.Snapshot()
type Store struct {
	mu sync.RWMutex

	// history is a circular buffer of recent generations
	history []GenerationRecord
	head    int
	size    int

	totalRecords int64
	totalSuccess int64
	totalErrors  int64
	byStrategy   map[string]*strategyStats
	errorsByKind map[string]int64

	// consecutiveCompletionErrors resets on any success
	consecutiveCompletionErrors int

	startTime time.Time
	version   string
}

type strategyStats struct {
	count           int64
	successCount    int64
	successDuration time.Duration
}

// StoreConfig configures the Store.
type StoreConfig struct {
	// HistoryCapacity is the max number of generations to retain
	HistoryCapacity int
	// Version is reported by Status
	Version string
}

// DefaultStoreConfig returns a default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		HistoryCapacity: 50,
		Version:         "dev",
	}
}

// NewStore creates a Store. startTime is used to compute uptime.
func NewStore(config StoreConfig, startTime time.Time) *Store {
	capacity := config.HistoryCapacity
	if capacity < 1 {
		capacity = DefaultStoreConfig().HistoryCapacity
	}

	return &Store{
		history:      make([]GenerationRecord, capacity),
		byStrategy:   make(map[string]*strategyStats),
		errorsByKind: make(map[string]int64),
		startTime:    startTime,
		version:      config.Version,
	}
}

// Record adds a finished generation.
func (s *Store) Record(rec GenerationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[s.head] = rec
	s.head = (s.head + 1) % len(s.history)
	if s.size < len(s.history) {
		s.size++
	}

	s.totalRecords++
	stats, ok := s.byStrategy[rec.Strategy]
	if !ok {
		stats = &strategyStats{}
		s.byStrategy[rec.Strategy] = stats
	}
	stats.count++

	if rec.Status == StatusSuccess {
		s.totalSuccess++
		stats.successCount++
		stats.successDuration += rec.Duration
		s.consecutiveCompletionErrors = 0
		return
	}

	s.totalErrors++
	s.errorsByKind[rec.ErrorKind]++
	if rec.ErrorKind == "completion" {
		s.consecutiveCompletionErrors++
	}
}

// Snapshot returns the aggregated statistics.
func (s *Store) Snapshot() GenerationMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := GenerationMetrics{
		TotalProcessed: s.totalRecords,
		TotalSuccess:   s.totalSuccess,
		TotalErrors:    s.totalErrors,
		ByStrategy:     make(map[string]*StrategyMetrics, len(s.byStrategy)),
		ErrorsByKind:   make(map[string]int64, len(s.errorsByKind)),
	}

	for strategy, stats := range s.byStrategy {
		sm := &StrategyMetrics{Count: stats.count}
		if stats.count > 0 {
			sm.SuccessRate = float64(stats.successCount) / float64(stats.count) * 100
		}
		if stats.successCount > 0 {
			sm.AvgDuration = stats.successDuration / time.Duration(stats.successCount)
		}
		m.ByStrategy[strategy] = sm
	}
	for kind, n := range s.errorsByKind {
		m.ErrorsByKind[kind] = n
	}
	return m
}

// Recent returns up to limit records, oldest first.
func (s *Store) Recent(limit int) []GenerationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || s.size == 0 {
		return []GenerationRecord{}
	}
	if limit > s.size {
		limit = s.size
	}

	n := len(s.history)
	result := make([]GenerationRecord, limit)
	for i := 0; i < limit; i++ {
		result[i] = s.history[(s.head-limit+i+n)%n]
	}
	return result
}

// Status returns the service health.
func (s *Store) Status() SystemStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	health := HealthRunning
	if s.consecutiveCompletionErrors >= degradedAfter {
		health = HealthDegraded
	}
	return SystemStatus{
		Health:  health,
		Version: s.version,
		Uptime:  time.Since(s.startTime),
	}
}
