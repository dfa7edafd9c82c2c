// Package verdict models a judge opinion on one multiple-choice question and
// the normalization applied to it before scoring.
package verdict

import "encoding/json"

// Finding is one defect reported by the judge.
type Finding struct {
	Kind    string `json:"type" schema:"required"`
	Comment string `json:"comment,omitempty" schema:"required"`
}

// Record is a single judge opinion. Only Errors takes part in admission;
// the remaining fields are carried for audit output.
type Record struct {
	Validity         string          `json:"validity,omitempty"`
	Errors           []Finding       `json:"errors" schema:"required"`
	Recommendation   string          `json:"recommendation,omitempty"`
	DifficultyScore  json.RawMessage `json:"difficulty_score,omitempty"`
	DetailedAnalysis json.RawMessage `json:"detailed_analysis,omitempty"`
}

// Normalized is a Record in which every finding kind occurs at most once.
type Normalized struct {
	Record
}

// Scored is a Normalized record with its total risk score.
type Scored struct {
	Normalized
	TotalScore float64 `json:"total_score"`
}

// Kinds returns the distinct finding kinds in order of appearance.
func (r Record) Kinds() []string {
	seen := make(map[string]struct{}, len(r.Errors))
	kinds := make([]string, 0, len(r.Errors))
	for _, f := range r.Errors {
		if _, ok := seen[f.Kind]; ok {
			continue
		}
		seen[f.Kind] = struct{}{}
		kinds = append(kinds, f.Kind)
	}
	return kinds
}

func (r Record) clone() Record {
	out := r
	out.Errors = append([]Finding(nil), r.Errors...)
	return out
}
