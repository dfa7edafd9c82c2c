// Package report summarizes a filter run for people and for machines.
package report

import (
	"sort"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/aggregate"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/batch"
)

type Report struct {
	RunID     string        `json:"run_id"`
	StartLine int           `json:"start_line"`
	NextLine  int           `json:"next_line"`
	Processed int           `json:"processed"`
	Passed    int           `json:"passed"`
	Warned    int           `json:"warned"`
	Filtered  int           `json:"filtered"`
	RowErrors int           `json:"row_errors"`
	Written   int           `json:"written"`
	Canceled  bool          `json:"canceled"`
	Audited   *int          `json:"audited,omitempty"`
	Duration  time.Duration `json:"duration_ns"`

	Reasons []Tally `json:"reasons"`
	Kinds   []Tally `json:"kinds"`

	Run        ScoreSet `json:"run"`
	Cumulative ScoreSet `json:"cumulative"`
}

type Tally struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ScoreSet holds the statistics of the three aggregate lists.
type ScoreSet struct {
	All      ScoreStats `json:"all"`
	Passed   ScoreStats `json:"passed"`
	Filtered ScoreStats `json:"filtered"`
}

func Build(s *batch.Summary) *Report {
	return &Report{
		RunID:      s.RunID,
		StartLine:  s.StartLine,
		NextLine:   s.NextLine,
		Processed:  s.Processed,
		Passed:     s.Passed,
		Warned:     s.Warned,
		Filtered:   s.Filtered,
		RowErrors:  s.RowErrors,
		Written:    s.Written(),
		Canceled:   s.Canceled,
		Audited:    s.Audited,
		Duration:   s.Duration,
		Reasons:    tallies(s.Reasons),
		Kinds:      tallies(s.Kinds),
		Run:        scoreSet(s.Run),
		Cumulative: scoreSet(s.Cumulative),
	}
}

func scoreSet(a aggregate.RunAggregate) ScoreSet {
	return ScoreSet{
		All:      ComputeScoreStats(a.All),
		Passed:   ComputeScoreStats(a.Passed),
		Filtered: ComputeScoreStats(a.Filtered),
	}
}

// tallies orders counts by descending count, then by name.
func tallies(m map[string]int) []Tally {
	out := make([]Tally, 0, len(m))
	for name, count := range m {
		if count > 0 {
			out = append(out, Tally{Name: name, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
