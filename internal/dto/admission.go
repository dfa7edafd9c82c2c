// Package dto holds the request and response bodies of the admission API.
package dto

import (
	"github.com/DjordjeVuckovic/mcqa-filter/internal/admission"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/judge"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/scoring"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/utils"
)

type VerdictRequest struct {
	Response string `json:"response"`
}

type QuestionRequest struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Solution string   `json:"solution"`
	// Response skips the judge call when set.
	Response string `json:"response,omitempty"`
}

func (r QuestionRequest) Validate() error {
	if r.Question == "" {
		return apperr.NewValidation("question is required")
	}
	if len(r.Choices) == 0 || len(r.Choices) > judge.ChoiceCount {
		return apperr.NewValidation("choices must hold between 1 and 5 entries")
	}
	if r.Solution == "" {
		return apperr.NewValidation("solution is required")
	}
	return nil
}

func (r QuestionRequest) ToQuestion() judge.Question {
	choices := make([]string, judge.ChoiceCount)
	copy(choices, r.Choices)
	return judge.Question{
		Text:     r.Question,
		Choices:  choices,
		Solution: r.Solution,
		Response: r.Response,
	}
}

type EvaluationResponse struct {
	Outcome         admission.Outcome      `json:"outcome"`
	Admitted        bool                   `json:"admitted"`
	Reasons         []string               `json:"reasons"`
	Score           float64                `json:"score"`
	Errors          []verdict.Finding      `json:"errors"`
	Breakdown       []scoring.Contribution `json:"breakdown"`
	ProcessingError string                 `json:"processing_error,omitempty"`
	AuditID         string                 `json:"audit_id,omitempty"`
}

func NewEvaluationResponse(res admission.Result, rs *rules.RuleSet) EvaluationResponse {
	errs := res.Verdict.Errors
	if errs == nil {
		errs = []verdict.Finding{}
	}
	reasons := res.Decision.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return EvaluationResponse{
		Outcome:         res.Decision.Outcome,
		Admitted:        res.Admitted(),
		Reasons:         reasons,
		Score:           utils.RoundDecimal(res.Score(), 4),
		Errors:          errs,
		Breakdown:       scoring.Breakdown(errs, rs),
		ProcessingError: apperr.KindOf(res.Err),
	}
}
