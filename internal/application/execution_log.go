package application

import (
	"sort"
	"sync"
	"time"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// maxMostUsed is how many analyzers Stats lists as most used.
const maxMostUsed = 5

// ExecutionRecord is one analyzer invocation.
type ExecutionRecord struct {
	Analyzer string        `json:"analyzer"`
	Success  bool          `json:"success"`
	Issues   int           `json:"issues"`
	Fixes    int           `json:"fixes"`
	Duration time.Duration `json:"duration_ns"`
	At       time.Time     `json:"at"`
}

// ExecutionLog is an append-only record of analyzer invocations, safe for
// concurrent use. A nil *ExecutionLog records nothing.
type ExecutionLog struct {
	mu      sync.Mutex
	records []ExecutionRecord
	now     func() time.Time
}

func NewExecutionLog() *ExecutionLog {
	return &ExecutionLog{now: time.Now}
}

// Append records one entry per result.
func (l *ExecutionLog) Append(results ...domain.Result) {
	if l == nil {
		return
	}
	at := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range results {
		l.records = append(l.records, ExecutionRecord{
			Analyzer: r.Analyzer,
			Success:  r.Success,
			Issues:   len(r.Issues),
			Fixes:    len(r.Fixes),
			Duration: r.Duration,
			At:       at,
		})
	}
}

// Records returns a copy of the log.
func (l *ExecutionLog) Records() []ExecutionRecord {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ExecutionRecord(nil), l.records...)
}

// Stats computes run count, success rate, mean duration and the most
// invoked analyzers.
func (l *ExecutionLog) Stats() domain.ExecutionStats {
	stats := domain.ExecutionStats{MostUsed: []domain.ToolUsage{}}
	records := l.Records()
	if len(records) == 0 {
		return stats
	}

	var succeeded int
	var total time.Duration
	counts := map[string]int{}
	for _, r := range records {
		if r.Success {
			succeeded++
		}
		total += r.Duration
		counts[r.Analyzer]++
	}

	stats.Runs = len(records)
	stats.SuccessRate = float64(succeeded) / float64(len(records))
	stats.MeanDuration = total / time.Duration(len(records))
	for name, n := range counts {
		stats.MostUsed = append(stats.MostUsed, domain.ToolUsage{Name: name, Count: n})
	}
	sort.Slice(stats.MostUsed, func(i, j int) bool {
		if stats.MostUsed[i].Count != stats.MostUsed[j].Count {
			return stats.MostUsed[i].Count > stats.MostUsed[j].Count
		}
		return stats.MostUsed[i].Name < stats.MostUsed[j].Name
	})
	if len(stats.MostUsed) > maxMostUsed {
		stats.MostUsed = stats.MostUsed[:maxMostUsed]
	}
	return stats
}
