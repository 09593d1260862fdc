package main

import (
	"fmt"
	"strings"
)

// EvaluateExact is the correctness verdict: exact, case-sensitive string
// equality with no trimming. The service is instructed to emit a strict
// canonical label, so any character-level difference is informative —
// either a real misclassification or a prompt-adherence failure. Lenient
// matching would mask both.
func EvaluateExact(expected, predicted string) bool {
	return expected == predicted
}

// ResultsStore accumulates per-query outcomes in processing order.
// Append-only during a run; owned by the orchestrator, no locking needed.
type ResultsStore struct {
	results []ClassificationResult
}

func NewResultsStore() *ResultsStore {
	return &ResultsStore{}
}

// AddResult evaluates, records, and returns the verdict in one step, so
// the orchestrator drives the stats from the same call site. Correctness
// is computed exactly once; the stored record and the returned verdict can
// never diverge.
func (s *ResultsStore) AddResult(queryID, inputText, expected, predicted string) bool {
	correct := EvaluateExact(expected, predicted)
	s.results = append(s.results, ClassificationResult{
		QueryID:   queryID,
		InputText: inputText,
		Expected:  expected,
		Predicted: predicted,
		Correct:   correct,
	})
	return correct
}

// Results returns a copy of the stored results in insertion order.
func (s *ResultsStore) Results() []ClassificationResult {
	out := make([]ClassificationResult, len(s.results))
	copy(out, s.results)
	return out
}

func (s *ResultsStore) Len() int {
	return len(s.results)
}

// Render produces the human-readable results listing. A pure function of
// the stored results: rendering twice without an AddResult in between
// yields identical output.
func (s *ResultsStore) Render() string {
	var out strings.Builder
	out.WriteString("Classification Results:\n")
	if len(s.results) == 0 {
		out.WriteString("  (no queries processed)\n")
		return out.String()
	}
	for _, r := range s.results {
		verdict := "FAIL"
		if r.Correct {
			verdict = "PASS"
		}
		fmt.Fprintf(&out, "  [%s] query=%s\n", verdict, r.QueryID)
		fmt.Fprintf(&out, "    input:     %s\n", r.InputText)
		fmt.Fprintf(&out, "    expected:  %s\n", r.Expected)
		fmt.Fprintf(&out, "    predicted: %s\n", r.Predicted)
	}
	return out.String()
}
