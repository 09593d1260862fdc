package main

import "fmt"

// QueryStats is the running pass/fail aggregate for one evaluation run.
// Counters only; every derived figure is computed on read so it can never
// go stale. Single-threaded use: the orchestrator is the only writer.
type QueryStats struct {
	totalQueries int
	passCount    int
	failCount    int
}

func NewQueryStats(totalQueries int) *QueryStats {
	return &QueryStats{totalQueries: totalQueries}
}

// RecordPass counts one correct classification. Recording more results than
// totalQueries is a bug in the caller, not a data condition, so it panics.
func (s *QueryStats) RecordPass() {
	s.ensureCapacity()
	s.passCount++
}

// RecordFail counts one incorrect classification.
func (s *QueryStats) RecordFail() {
	s.ensureCapacity()
	s.failCount++
}

func (s *QueryStats) ensureCapacity() {
	if s.ProcessedCount() >= s.totalQueries {
		panic(fmt.Sprintf("query stats overflow: recording result %d of %d",
			s.ProcessedCount()+1, s.totalQueries))
	}
}

func (s *QueryStats) TotalQueries() int { return s.totalQueries }
func (s *QueryStats) PassCount() int    { return s.passCount }
func (s *QueryStats) FailCount() int    { return s.failCount }

func (s *QueryStats) ProcessedCount() int {
	return s.passCount + s.failCount
}

func (s *QueryStats) RemainingCount() int {
	remaining := s.totalQueries - s.ProcessedCount()
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *QueryStats) PassPercentage() float64 {
	if s.totalQueries == 0 {
		return 0
	}
	return float64(s.passCount) / float64(s.totalQueries) * 100
}

func (s *QueryStats) FailPercentage() float64 {
	if s.totalQueries == 0 {
		return 0
	}
	return float64(s.failCount) / float64(s.totalQueries) * 100
}

func (s *QueryStats) CompletionPercentage() float64 {
	if s.totalQueries == 0 {
		return 0
	}
	return float64(s.ProcessedCount()) / float64(s.totalQueries) * 100
}

// StatsSummary is the snapshot persisted to the stats series and the run
// history. JSON keys match the stats file consumed by the downstream
// visualization tooling.
type StatsSummary struct {
	TotalQueries         int     `json:"total_queries"`
	ProcessedQueries     int     `json:"processed_queries"`
	RemainingQueries     int     `json:"remaining_queries"`
	PassCount            int     `json:"pass_count"`
	FailCount            int     `json:"fail_count"`
	PassPercentage       float64 `json:"pass_percentage"`
	FailPercentage       float64 `json:"fail_percentage"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

func (s *QueryStats) Summary() StatsSummary {
	return StatsSummary{
		TotalQueries:         s.totalQueries,
		ProcessedQueries:     s.ProcessedCount(),
		RemainingQueries:     s.RemainingCount(),
		PassCount:            s.passCount,
		FailCount:            s.failCount,
		PassPercentage:       s.PassPercentage(),
		FailPercentage:       s.FailPercentage(),
		CompletionPercentage: s.CompletionPercentage(),
	}
}

func (s *QueryStats) String() string {
	return fmt.Sprintf("Query Statistics:\n"+
		"  Total Queries: %d\n"+
		"  Processed: %d (%.1f%%)\n"+
		"  Remaining: %d\n"+
		"  Passed: %d (%.1f%%)\n"+
		"  Failed: %d (%.1f%%)",
		s.totalQueries,
		s.ProcessedCount(), s.CompletionPercentage(),
		s.RemainingCount(),
		s.passCount, s.PassPercentage(),
		s.failCount, s.FailPercentage())
}
