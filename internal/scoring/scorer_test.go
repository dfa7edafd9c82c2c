package scoring

import (
	"testing"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_Empty(t *testing.T) {
	assert.Zero(t, Score(nil, rules.Default()))
	assert.Zero(t, Score([]verdict.Finding{}, rules.Default()))
}

func TestScore_PerFinding(t *testing.T) {
	rs := rules.Default()

	tests := []struct {
		name    string
		finding verdict.Finding
		want    float64
	}{
		{name: "hallucination base plus assertive", finding: verdict.Finding{Kind: "Hallucination", Comment: "형법 제999조는 존재하지 않는 조문이다"}, want: 22},
		{name: "highest severity tier only", finding: verdict.Finding{Kind: "StructuralIssue", Comment: "치명적이고 심각한 결함"}, want: 10},
		{name: "middle tier", finding: verdict.Finding{Kind: "Overlap", Comment: "중복이 현저하다"}, want: 7},
		{name: "lowest tier", finding: verdict.Finding{Kind: "Overlap", Comment: "일부 중복"}, want: 6},
		{name: "logical gap reinforcement", finding: verdict.Finding{Kind: "LogicalGap", Comment: "정답이 논리적 근거 없이 단독으로 등장한다"}, want: 9},
		{name: "reinforcement only for its kind", finding: verdict.Finding{Kind: "Overlap", Comment: "논리적 근거 없이 반복"}, want: 5},
		{name: "unknown kind keeps bonuses", finding: verdict.Finding{Kind: "AnswerValidity", Comment: "정답이 명백히 틀렸다"}, want: 5},
		{name: "empty comment", finding: verdict.Finding{Kind: "Hallucination"}, want: 0},
		{name: "hedged comment", finding: verdict.Finding{Kind: "Hallucination", Comment: "근거 없음"}, want: 0},
		{name: "hedged after compaction", finding: verdict.Finding{Kind: "LogicalGap", Comment: "오해의 소지가 있을 수 있 음"}, want: 0},
		{name: "spaced marker hedges comment", finding: verdict.Finding{Kind: "Hallucination", Comment: "정답이 틀렸다고 볼 수 있을 것이다"}, want: 0},
		{name: "case insensitive markers", finding: verdict.Finding{Kind: "Overlap", Comment: "  DUPLICATE 일부 "}, want: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score([]verdict.Finding{tt.finding}, rs))
		})
	}
}

func TestScore_SemanticDistanceMismatch(t *testing.T) {
	finding := verdict.Finding{Kind: "SemanticDistance", Comment: "정답과 3번 선택지는 완전히 불일치한다"}

	t.Run("breakdown before severity", func(t *testing.T) {
		contrib := Breakdown([]verdict.Finding{finding}, rules.Default())
		require.Len(t, contrib, 1)
		c := contrib[0]
		assert.False(t, c.Skipped)
		assert.Equal(t, 12.0, c.Base+c.Reinforcement+c.Assertiveness)
		assert.Equal(t, 3.0, c.Severity)
		assert.Equal(t, 15.0, c.Total())
	})

	t.Run("without a matching severity tier", func(t *testing.T) {
		rs := rules.Default()
		rs.Scoring.SeverityTiers = []rules.SeverityTier{
			{Bonus: 3, Markers: []string{"치명"}},
			{Bonus: 2, Markers: []string{"심각"}},
		}
		assert.Equal(t, 12.0, Score([]verdict.Finding{finding}, rs))
	})
}

func TestScore_ExcludedKinds(t *testing.T) {
	legacy, err := rules.Preset("legacy")
	require.NoError(t, err)

	findings := []verdict.Finding{
		{Kind: "AnswerValidity", Comment: "정답이 명백히 틀렸다"},
		{Kind: "Overlap", Comment: "일부 중복"},
	}
	assert.Equal(t, 11.0, Score(findings, rules.Default()))
	assert.Equal(t, 6.0, Score(findings, legacy))

	contrib := Breakdown(findings, legacy)
	assert.True(t, contrib[0].Skipped)
	assert.False(t, contrib[1].Skipped)
}

func TestScore_DeterministicAndNonNegative(t *testing.T) {
	rs := rules.Default()
	findings := []verdict.Finding{
		{Kind: "Hallucination", Comment: "대법원 판결과 정면으로 배치됨이 명백하다"},
		{Kind: "SemanticDistance", Comment: "전혀 관련없음"},
		{Kind: "LogicalGap", Comment: "근거 부족"},
		{Kind: "Custom", Comment: "경미한 표현 문제"},
		{Kind: "Overlap", Comment: ""},
	}

	first := Score(findings, rs)
	for range 10 {
		assert.Equal(t, first, Score(findings, rs))
	}
	assert.GreaterOrEqual(t, first, 0.0)
}

func TestApply(t *testing.T) {
	n := verdict.Normalize(verdict.Record{Errors: []verdict.Finding{{Kind: "Overlap", Comment: "일부 중복"}}})
	scored := Apply(n, rules.Default())
	assert.Equal(t, 6.0, scored.TotalScore)
	assert.Equal(t, n, scored.Normalized)
}
