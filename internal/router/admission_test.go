package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/admission"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/dto"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/judge"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/in_mem"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	respPass   = `{"validity": "High", "errors": [], "recommendation": "Keep"}`
	respReject = "```json\n{\"errors\": [{\"type\": \"SemanticDistance\", \"comment\": \"정답과 3번 선택지는 완전히 불일치한다\"}]}\n```"
)

type stubJudge struct {
	resp string
	err  error
}

func (s stubJudge) Judge(context.Context, judge.Question) (string, error) {
	return s.resp, s.err
}

func newTestEcho(opts ...Option) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewAdmissionRouter(e, admission.NewEngine(rules.Default()), opts...).Bind()
	return e
}

func do(e *echo.Echo, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) dto.EvaluationResponse {
	t.Helper()
	var resp dto.EvaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestEvaluateVerdict(t *testing.T) {
	e := newTestEcho()

	t.Run("json body", func(t *testing.T) {
		body, _ := json.Marshal(dto.VerdictRequest{Response: respReject})
		rec := do(e, http.MethodPost, "/v1/verdicts/evaluate", echo.MIMEApplicationJSON, string(body))
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec)
		assert.Equal(t, admission.Reject, resp.Outcome)
		assert.False(t, resp.Admitted)
		assert.InDelta(t, 15.0, resp.Score, 1e-9)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "SemanticDistance", resp.Errors[0].Kind)
		require.Len(t, resp.Breakdown, 1)
		assert.InDelta(t, 15.0, resp.Breakdown[0].Total(), 1e-9)
	})

	t.Run("raw text body", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/verdicts/evaluate", echo.MIMETextPlain, respPass)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec)
		assert.Equal(t, admission.Pass, resp.Outcome)
		assert.True(t, resp.Admitted)
		assert.Empty(t, resp.ProcessingError)
	})

	t.Run("empty body", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/verdicts/evaluate", echo.MIMETextPlain, "  ")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unparseable admitted", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/verdicts/evaluate", echo.MIMETextPlain, "the judge refused")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec)
		assert.True(t, resp.Admitted)
		assert.Equal(t, string(apperr.ParseNoJSON), resp.ProcessingError)
	})

	t.Run("unparseable strict", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/verdicts/evaluate?strict=true", echo.MIMETextPlain, "the judge refused")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), string(apperr.ParseNoJSON))
	})
}

func TestEvaluateQuestion(t *testing.T) {
	body := `{"question": "형법상 정당방위의 요건은?", "choices": ["가", "나", "다", "라", "마"], "solution": "1"}`

	t.Run("reject is audited", func(t *testing.T) {
		audit := in_mem.NewInMemStorer()
		e := newTestEcho(WithJudge(stubJudge{resp: respReject}), WithAuditStore(audit))

		rec := do(e, http.MethodPost, "/v1/questions/evaluate", echo.MIMEApplicationJSON, body)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec)
		assert.Equal(t, admission.Reject, resp.Outcome)
		require.Len(t, audit.Entries(), 1)
		entry := audit.Entries()[0]
		assert.Equal(t, APIRunID, entry.RunID)
		assert.Equal(t, entry.ID.String(), resp.AuditID)
		assert.Equal(t, "형법상 정당방위의 요건은?", entry.QuestionPreview)
	})

	t.Run("pass is not audited", func(t *testing.T) {
		audit := in_mem.NewInMemStorer()
		e := newTestEcho(WithJudge(stubJudge{resp: respPass}), WithAuditStore(audit))

		rec := do(e, http.MethodPost, "/v1/questions/evaluate", echo.MIMEApplicationJSON, body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, admission.Pass, decode(t, rec).Outcome)
		assert.Empty(t, audit.Entries())
	})

	t.Run("recorded response skips judge", func(t *testing.T) {
		e := newTestEcho()
		req := dto.QuestionRequest{Question: "q", Choices: []string{"a"}, Solution: "1", Response: respReject}
		raw, _ := json.Marshal(req)

		rec := do(e, http.MethodPost, "/v1/questions/evaluate", echo.MIMEApplicationJSON, string(raw))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, admission.Reject, decode(t, rec).Outcome)
	})

	t.Run("judge failure", func(t *testing.T) {
		e := newTestEcho(WithJudge(stubJudge{err: errors.New("quota exceeded")}))
		rec := do(e, http.MethodPost, "/v1/questions/evaluate", echo.MIMEApplicationJSON, body)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("no judge", func(t *testing.T) {
		e := newTestEcho()
		rec := do(e, http.MethodPost, "/v1/questions/evaluate", echo.MIMEApplicationJSON, body)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("invalid request", func(t *testing.T) {
		e := newTestEcho(WithJudge(stubJudge{resp: respPass}))
		rec := do(e, http.MethodPost, "/v1/questions/evaluate", echo.MIMEApplicationJSON, `{"question": ""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRules(t *testing.T) {
	e := newTestEcho()
	rec := do(e, http.MethodGet, "/v1/rules", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rs map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rs))
	assert.Equal(t, rules.Default().Name, rs["name"])
	assert.Contains(t, rs, "weights")
}
