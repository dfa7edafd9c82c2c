// Package scoring turns a normalized verdict into a numeric risk score.
package scoring

import (
	"strings"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
)

// Contribution is the score breakdown of one finding.
type Contribution struct {
	Kind          string  `json:"kind"`
	Skipped       bool    `json:"skipped"`
	Base          float64 `json:"base"`
	Severity      float64 `json:"severity"`
	Reinforcement float64 `json:"reinforcement"`
	Assertiveness float64 `json:"assertiveness"`
}

func (c Contribution) Total() float64 {
	return c.Base + c.Severity + c.Reinforcement + c.Assertiveness
}

// Score returns the total risk score of findings under rs.
func Score(findings []verdict.Finding, rs *rules.RuleSet) float64 {
	total := 0.0
	for _, c := range Breakdown(findings, rs) {
		total += c.Total()
	}
	return total
}

// Apply attaches the risk score to n.
func Apply(n verdict.Normalized, rs *rules.RuleSet) verdict.Scored {
	return verdict.Scored{Normalized: n, TotalScore: Score(n.Errors, rs)}
}

// Breakdown scores each finding separately. Findings with an empty comment,
// an excluded kind or hedged wording are reported as skipped.
func Breakdown(findings []verdict.Finding, rs *rules.RuleSet) []Contribution {
	out := make([]Contribution, 0, len(findings))
	for _, f := range findings {
		out = append(out, contribution(f, rs))
	}
	return out
}

func contribution(f verdict.Finding, rs *rules.RuleSet) Contribution {
	kind := strings.TrimSpace(f.Kind)
	c := Contribution{Kind: kind}

	comment := strings.ToLower(strings.TrimSpace(f.Comment))
	if comment == "" || rs.Excluded(kind) || rules.ContainsAnyCompact(comment, rs.Scoring.AmbiguityMarkers) {
		c.Skipped = true
		return c
	}

	c.Base = rs.Weight(kind)

	for _, tier := range rs.Scoring.SeverityTiers {
		if rules.ContainsAny(comment, tier.Markers) {
			c.Severity = tier.Bonus
			break
		}
	}

	for _, r := range rs.Scoring.Reinforcements {
		if r.Kind == kind && rules.ContainsAny(comment, r.Markers) {
			c.Reinforcement += r.Bonus
		}
	}

	c.Assertiveness = rs.Scoring.AssertivenessBonus
	return c
}
