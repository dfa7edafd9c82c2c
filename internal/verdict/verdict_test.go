package verdict

import (
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeByKind(t *testing.T) {
	t.Run("identical comments collapse", func(t *testing.T) {
		got := MergeByKind([]Finding{
			{Kind: "LogicalGap", Comment: "근거가 부족하다"},
			{Kind: "LogicalGap", Comment: "근거가 부족하다"},
		})
		assert.Equal(t, []Finding{{Kind: "LogicalGap", Comment: "근거가 부족하다"}}, got)
	})

	t.Run("distinct comments joined in order", func(t *testing.T) {
		got := MergeByKind([]Finding{
			{Kind: "Overlap", Comment: " 1번과 2번 동일 "},
			{Kind: "LogicalGap", Comment: "ㄱ 단독"},
			{Kind: "Overlap", Comment: "3번과 4번 동일"},
			{Kind: "Overlap", Comment: "1번과 2번 동일"},
		})
		assert.Equal(t, []Finding{
			{Kind: "Overlap", Comment: "1번과 2번 동일; 3번과 4번 동일"},
			{Kind: "LogicalGap", Comment: "ㄱ 단독"},
		}, got)
	})

	t.Run("empty kinds dropped and empty comments kept", func(t *testing.T) {
		got := MergeByKind([]Finding{
			{Kind: "  ", Comment: "ignored"},
			{Kind: "", Comment: "ignored"},
			{Kind: " StructuralIssue ", Comment: ""},
		})
		assert.Equal(t, []Finding{{Kind: "StructuralIssue"}}, got)
	})

	t.Run("empty comment later filled", func(t *testing.T) {
		got := MergeByKind([]Finding{
			{Kind: "Overlap"},
			{Kind: "Overlap", Comment: "중복"},
		})
		assert.Equal(t, []Finding{{Kind: "Overlap", Comment: "중복"}}, got)
	})

	t.Run("segment of merged comment not repeated", func(t *testing.T) {
		got := MergeByKind([]Finding{
			{Kind: "SemanticDistance", Comment: "A; B"},
			{Kind: "SemanticDistance", Comment: "A"},
			{Kind: "SemanticDistance", Comment: "B; C"},
		})
		assert.Equal(t, []Finding{{Kind: "SemanticDistance", Comment: "A; B; C"}}, got)
	})

	t.Run("comparison is case sensitive", func(t *testing.T) {
		got := MergeByKind([]Finding{
			{Kind: "Overlap", Comment: "ABC"},
			{Kind: "Overlap", Comment: "abc"},
		})
		assert.Equal(t, "ABC; abc", got[0].Comment)
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := [][]Finding{
		nil,
		{{Kind: "A", Comment: "x"}, {Kind: "A", Comment: "y"}, {Kind: "B"}},
		{{Kind: "A", Comment: "x; y"}, {Kind: "A", Comment: "x"}},
		{{Kind: " ", Comment: "z"}, {Kind: "C", Comment: "  "}},
	}
	for _, errs := range inputs {
		once := Normalize(Record{Errors: errs})
		twice := Normalize(once.Record)
		assert.Equal(t, once, twice)
	}
}

func TestNormalize_KeepsEveryKindWithComment(t *testing.T) {
	in := Record{Errors: []Finding{
		{Kind: "A", Comment: "a"},
		{Kind: "B", Comment: "b"},
		{Kind: "A", Comment: "a2"},
		{Kind: "C", Comment: "c"},
	}}
	out := Normalize(in)

	assert.LessOrEqual(t, len(out.Kinds()), len(in.Kinds()))
	assert.Equal(t, []string{"A", "B", "C"}, out.Kinds())
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := Record{Errors: []Finding{{Kind: " A ", Comment: " a "}}}
	_ = Normalize(in)
	assert.Equal(t, " A ", in.Errors[0].Kind)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "결과:\n```json\n{\"a\": {\"b\": 2}}\n```\n끝", want: `{"a": {"b": 2}}`},
		{name: "plain fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", in: `평가 결과는 {"a":"x"} 입니다. {"b":2}`, want: `{"a":"x"}`},
		{name: "braces in strings", in: `{"c":"} not the end {","d":"\"}"}`, want: `{"c":"} not the end {","d":"\"}"}`},
		{
			name: "fence after object",
			in:   "{\"errors\":[{\"type\":\"LogicalGap\",\"comment\":\"x\"}]}\nNote: reply format was ```json```.",
			want: `{"errors":[{"type":"LogicalGap","comment":"x"}]}`,
		},
		{
			name: "fence inside string",
			in:   "{\"errors\":[{\"type\":\"LogicalGap\",\"comment\":\"see ```code``` here\"}]}",
			want: "{\"errors\":[{\"type\":\"LogicalGap\",\"comment\":\"see ```code``` here\"}]}",
		},
		{
			name: "fence without object",
			in:   "```text\n형식 안내\n```\n{\"errors\":[]}",
			want: `{"errors":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExtractJSONObject("no object here")
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = ExtractJSONObject(`{"a": {"b": 1}`)
	assert.ErrorIs(t, err, ErrUnbalancedJSON)
}

func TestParse(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		raw := "```json\n" + `{
  "validity": "High",
  "errors": [
    {"type": "Overlap", "comment": "1번 2번 동일"},
    "not an object",
    {"type": 3, "comment": "numeric kind"}
  ],
  "recommendation": "Keep",
  "difficulty_score": 7,
  "detailed_analysis": {"overall_assessment": "양호"}
}` + "\n```"
		rec, err := Parse(raw)
		require.NoError(t, err)

		assert.Equal(t, "High", rec.Validity)
		assert.Equal(t, "Keep", rec.Recommendation)
		assert.JSONEq(t, `7`, string(rec.DifficultyScore))
		assert.JSONEq(t, `{"overall_assessment": "양호"}`, string(rec.DetailedAnalysis))
		assert.Equal(t, []Finding{
			{Kind: "Overlap", Comment: "1번 2번 동일"},
			{Kind: "", Comment: "numeric kind"},
		}, rec.Errors)
	})

	t.Run("errors tolerated when absent null or not a list", func(t *testing.T) {
		for _, raw := range []string{`{}`, `{"errors": null}`, `{"errors": "none"}`, `{"errors": {"type": "A"}}`} {
			rec, err := Parse(raw)
			require.NoError(t, err, raw)
			assert.Empty(t, rec.Errors, raw)
			assert.NotNil(t, rec.Errors, raw)
		}
	})

	t.Run("trailing fence keeps verdict", func(t *testing.T) {
		rec, err := Parse("{\"validity\":\"High\",\"errors\":[{\"type\":\"LogicalGap\",\"comment\":\"x\"}]}\nNote: reply format was ```json```.")
		require.NoError(t, err)
		assert.Equal(t, []Finding{{Kind: "LogicalGap", Comment: "x"}}, rec.Errors)
	})

	t.Run("failures are typed", func(t *testing.T) {
		_, err := Parse("판단 불가")
		var pe *apperr.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, apperr.ParseNoJSON, pe.Kind)

		_, err = Parse(`{"errors": [1, 2,]}`)
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, apperr.ParseInvalidJSON, pe.Kind)
	})
}

func TestDecode_RejectsNonObject(t *testing.T) {
	_, err := Decode([]byte(`[{"type":"A"}]`))
	var pe *apperr.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, apperr.ParseNotObject, pe.Kind)
}
