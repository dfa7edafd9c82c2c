package admission

import (
	"log/slog"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/evidence"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/scoring"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
)

// Result is the outcome of evaluating one judge response. Err is set when
// processing failed and the question was admitted by the fail-open policy.
type Result struct {
	Verdict  verdict.Scored `json:"verdict"`
	Decision Decision       `json:"decision"`
	Err      error          `json:"-"`
}

func (r Result) Admitted() bool {
	return r.Decision.Outcome.Admitted()
}

func (r Result) Score() float64 {
	return r.Verdict.TotalScore
}

// Engine runs normalization, the evidence gate, scoring and the decision
// for one rule set. It is safe for concurrent use.
type Engine struct {
	rules *rules.RuleSet
	gate  *evidence.Gate
}

func NewEngine(rs *rules.RuleSet) *Engine {
	return &Engine{
		rules: rs,
		gate:  evidence.NewGate(rs),
	}
}

func (e *Engine) Rules() *rules.RuleSet {
	return e.rules
}

// Evaluate parses a raw judge response and evaluates it. It never fails:
// unparseable responses are admitted with ReasonProcessingError.
func (e *Engine) Evaluate(raw string) Result {
	rec, err := verdict.Parse(raw)
	if err != nil {
		return e.failOpen(err)
	}
	return e.EvaluateRecord(rec)
}

// EvaluateRecord evaluates an already decoded verdict record.
func (e *Engine) EvaluateRecord(rec verdict.Record) (res Result) {
	defer func() {
		if v := recover(); v != nil {
			res = e.failOpen(&apperr.PanicError{Value: v})
		}
	}()

	gated := e.gate.Apply(verdict.Normalize(rec))
	scored := scoring.Apply(gated, e.rules)

	return Result{
		Verdict:  scored,
		Decision: Decide(gated, scored.TotalScore, e.rules),
	}
}

func (e *Engine) failOpen(err error) Result {
	slog.Warn("Verdict processing failed, admitting question",
		"error", err,
		"error_kind", apperr.KindOf(err))

	return Result{
		Verdict: verdict.Scored{
			Normalized: verdict.Normalized{Record: verdict.Record{Errors: []verdict.Finding{}}},
		},
		Decision: failOpen(),
		Err:      err,
	}
}
