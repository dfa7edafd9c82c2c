// Package evidence re-examines findings of the severe kind and keeps them only
// when their comment cites verifiable evidence in an assertive tone.
package evidence

import (
	"regexp"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
)

type Gate struct {
	rules *rules.RuleSet
}

func NewGate(rs *rules.RuleSet) *Gate {
	return &Gate{rules: rs}
}

// Apply downgrades unevidenced severe findings to the downgrade kind, drops
// the ones without a comment and merges the result by kind again. It never
// introduces a severe finding.
func (g *Gate) Apply(n verdict.Normalized) verdict.Normalized {
	severe := g.rules.Kinds.Severe

	refined := make([]verdict.Finding, 0, len(n.Errors))
	for _, f := range n.Errors {
		if f.Kind != severe || g.Evidenced(f.Comment) {
			refined = append(refined, f)
			continue
		}
		if f.Comment == "" {
			continue
		}
		refined = append(refined, verdict.Finding{Kind: g.rules.Kinds.Downgrade, Comment: f.Comment})
	}

	out := n.Record
	out.Errors = verdict.MergeByKind(refined)
	return verdict.Normalized{Record: out}
}

// Evidenced reports whether comment carries the evidence required to keep a
// severe finding: an assertive tone plus either a cited article declared
// nonexistent or a cited authority that the question contradicts.
func (g *Gate) Evidenced(comment string) bool {
	if comment == "" || g.Ambiguous(comment) {
		return false
	}
	ev := g.rules.Evidence

	if !rules.ContainsAny(comment, ev.AssertiveMarkers) {
		return false
	}

	fabricated := matches(g.rules.ArticlePattern(), comment) &&
		rules.ContainsAny(comment, ev.NonexistenceMarkers)

	anchored := rules.ContainsAny(comment, ev.AuthorityMarkers) ||
		matches(g.rules.CaseNumberPattern(), comment)
	contradicted := anchored && rules.ContainsAny(comment, ev.ContradictionMarkers)

	return fabricated || contradicted
}

// Ambiguous reports hedged wording. Empty comments count as ambiguous.
func (g *Gate) Ambiguous(comment string) bool {
	if comment == "" {
		return true
	}
	return rules.ContainsAnyCompact(comment, g.rules.Evidence.AmbiguityMarkers)
}

func matches(re *regexp.Regexp, s string) bool {
	if re == nil {
		return false
	}
	return re.MatchString(s)
}
