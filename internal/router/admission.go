package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/admission"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/batch"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/dto"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/judge"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// APIRunID marks audit entries written by the admission API.
const APIRunID = "api"

type AdmissionRouter struct {
	e      *echo.Echo
	engine *admission.Engine
	judge  judge.Judge
	audit  storage.AuditStore
}

type Option func(*AdmissionRouter)

func WithJudge(j judge.Judge) Option {
	return func(r *AdmissionRouter) {
		r.judge = j
	}
}

// WithAuditStore records rejected questions evaluated through the API.
func WithAuditStore(s storage.AuditStore) Option {
	return func(r *AdmissionRouter) {
		r.audit = s
	}
}

func NewAdmissionRouter(e *echo.Echo, engine *admission.Engine, opts ...Option) *AdmissionRouter {
	r := &AdmissionRouter{
		e:      e,
		engine: engine,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *AdmissionRouter) Bind() {
	v1 := r.e.Group("/v1")
	v1.POST("/verdicts/evaluate", r.evaluateVerdictHandler)
	v1.POST("/questions/evaluate", r.evaluateQuestionHandler)
	v1.GET("/rules", r.rulesHandler)
}

// evaluateVerdictHandler accepts {"response": "..."} or the raw judge text as
// the request body. With ?strict=true an unparseable response is reported as
// an error instead of being admitted.
func (r *AdmissionRouter) evaluateVerdictHandler(c echo.Context) error {
	raw, err := readResponseBody(c)
	if err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		return apperr.NewValidation("response is required")
	}

	res := r.engine.Evaluate(raw)
	if strict, _ := strconv.ParseBool(c.QueryParam("strict")); strict && res.Err != nil {
		return res.Err
	}

	return c.JSON(http.StatusOK, dto.NewEvaluationResponse(res, r.engine.Rules()))
}

func (r *AdmissionRouter) evaluateQuestionHandler(c echo.Context) error {
	var req dto.QuestionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	q := req.ToQuestion()
	raw := q.Response
	if raw == "" {
		if r.judge == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "no judge configured")
		}
		var err error
		raw, err = r.judge.Judge(c.Request().Context(), q)
		if err != nil {
			slog.Error("Judge call failed", "error", err, "question", q.Preview(40))
			return echo.NewHTTPError(http.StatusBadGateway, "judge call failed")
		}
	}

	res := r.engine.Evaluate(raw)
	resp := dto.NewEvaluationResponse(res, r.engine.Rules())

	if res.Decision.Outcome == admission.Reject && r.audit != nil {
		entry := storage.AuditEntry{
			ID:              uuid.New(),
			RunID:           APIRunID,
			QuestionPreview: q.Preview(batch.DefaultPreviewLength),
			Errors:          res.Verdict.Errors,
			Score:           res.Score(),
			Outcome:         string(res.Decision.Outcome),
			Reasons:         res.Decision.Reasons,
			CreatedAt:       time.Now().UTC(),
		}
		if err := r.audit.SaveBulk(c.Request().Context(), []storage.AuditEntry{entry}); err != nil {
			slog.Error("Failed to save audit entry", "error", err)
		} else {
			resp.AuditID = entry.ID.String()
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (r *AdmissionRouter) rulesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, r.engine.Rules())
}

func readResponseBody(c echo.Context) (string, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return "", apperr.NewValidationWrap("failed to read request body", err)
	}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var req dto.VerdictRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return "", apperr.NewValidationWrap("invalid request body", err)
		}
		return req.Response, nil
	}
	return string(body), nil
}
