// Package admission decides whether a judged question enters the dataset.
package admission

import (
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
)

type Outcome string

const (
	Pass   Outcome = "pass"
	Reject Outcome = "reject"
	// Warn admits the question but flags it for manual review.
	Warn Outcome = "warn"
)

func (o Outcome) Admitted() bool {
	return o != Reject
}

const (
	ReasonHardBlock       = rules.ReasonHallucinationHardBlock
	ReasonScoreThreshold  = "score_threshold"
	ReasonManualReview    = "manual_review"
	ReasonProcessingError = "processing_error"
)

type Decision struct {
	Outcome Outcome  `json:"outcome"`
	Reasons []string `json:"reasons"`
}

// Decide applies the hard-block rules first and the score thresholds second.
// A hard block rejects regardless of score.
func Decide(n verdict.Normalized, score float64, rs *rules.RuleSet) Decision {
	if reasons := HardBlocks(n, rs); len(reasons) > 0 {
		return Decision{Outcome: Reject, Reasons: reasons}
	}

	switch {
	case score >= rs.Thresholds.Reject:
		return Decision{Outcome: Reject, Reasons: []string{ReasonScoreThreshold}}
	case score >= rs.Thresholds.Warn:
		return Decision{Outcome: Warn, Reasons: []string{ReasonManualReview}}
	default:
		return Decision{Outcome: Pass, Reasons: []string{}}
	}
}

// HardBlocks returns the reasons of every hard-block rule that fires on n,
// in rule order and without duplicates.
func HardBlocks(n verdict.Normalized, rs *rules.RuleSet) []string {
	var reasons []string
	for _, rule := range rs.HardBlocks {
		if slices.Contains(reasons, rule.Reason) {
			continue
		}
		for _, f := range n.Errors {
			if strings.TrimSpace(f.Kind) != rule.Kind {
				continue
			}
			if rules.ContainsAny(strings.ToLower(f.Comment), rule.Markers) {
				reasons = append(reasons, rule.Reason)
				break
			}
		}
	}
	return reasons
}

func failOpen() Decision {
	return Decision{Outcome: Pass, Reasons: []string{ReasonProcessingError}}
}
