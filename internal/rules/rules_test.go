package rules

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	rs := Default()

	assert.Equal(t, "Hallucination", rs.Kinds.Severe)
	assert.Equal(t, "SemanticDistance", rs.Kinds.Downgrade)
	assert.Equal(t, 20.0, rs.Weight("Hallucination"))
	assert.Equal(t, 0.0, rs.Weight("AnswerValidity"))
	assert.False(t, rs.Excluded("AnswerValidity"))
	assert.Equal(t, 15.0, rs.Thresholds.Reject)
	assert.Equal(t, 6.0, rs.Thresholds.Warn)
	require.NotNil(t, rs.ArticlePattern())
	require.NotNil(t, rs.CaseNumberPattern())

	assert.True(t, rs.ArticlePattern().MatchString("형법 제 999 조"))
	assert.True(t, rs.CaseNumberPattern().MatchString("2015도12345"))
	assert.False(t, rs.CaseNumberPattern().MatchString("제3조"))
}

func TestYAMLLoader_Load(t *testing.T) {
	reader := strings.NewReader(`
name: strict
weights:
  Hallucination: 25
  Overlap: 1
thresholds:
  reject: 10
  warn: 4
`)
	rs, err := NewYAMLLoader(reader).Load(true)
	require.NoError(t, err)

	assert.Equal(t, "strict", rs.Name)
	assert.Equal(t, 25.0, rs.Weight("Hallucination"))
	assert.Equal(t, 0.0, rs.Weight("StructuralIssue"))
	assert.Equal(t, 10.0, rs.Thresholds.Reject)
	assert.Equal(t, 4.0, rs.Thresholds.Warn)

	// untouched sections come from the default rule set
	assert.Equal(t, Default().HardBlocks, rs.HardBlocks)
	assert.Equal(t, Default().Scoring.SeverityTiers, rs.Scoring.SeverityTiers)
	assert.NotNil(t, rs.ArticlePattern())
}

func TestYAMLLoader_EmptyDocumentIsDefault(t *testing.T) {
	rs, err := NewYAMLLoader(strings.NewReader("")).Load(true)
	require.NoError(t, err)
	assert.Equal(t, Default().Weights, rs.Weights)
	assert.Equal(t, "custom", rs.Name)
}

func TestYAMLLoader_ExplicitEmptyHardBlocks(t *testing.T) {
	rs, err := NewYAMLLoader(strings.NewReader("hard_blocks: []\n")).Load(true)
	require.NoError(t, err)
	assert.Empty(t, rs.HardBlocks)
}

func TestYAMLLoader_ExplicitZeroScalars(t *testing.T) {
	doc := "scoring:\n  assertiveness_bonus: 0\nthresholds:\n  reject: 15\n  warn: 0\n"
	rs, err := NewYAMLLoader(strings.NewReader(doc)).Load(true)
	require.NoError(t, err)

	assert.Zero(t, rs.Scoring.AssertivenessBonus)
	assert.Zero(t, rs.Thresholds.Warn)
	assert.Equal(t, 15.0, rs.Thresholds.Reject)
}

func TestYAMLLoader_OmittedScalarsUseDefaults(t *testing.T) {
	rs, err := NewYAMLLoader(strings.NewReader("thresholds:\n  reject: 15\n")).Load(true)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Thresholds.Warn, rs.Thresholds.Warn)
	assert.Equal(t, def.Scoring.AssertivenessBonus, rs.Scoring.AssertivenessBonus)
}

func TestYAMLLoader_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "negative weight", doc: "weights:\n  Overlap: -1\n", want: "weights[Overlap]"},
		{name: "explicit zero reject", doc: "thresholds:\n  reject: 0\n", want: "thresholds.reject"},
		{name: "warn above reject", doc: "thresholds:\n  reject: 5\n  warn: 9\n", want: "thresholds.warn"},
		{name: "same kinds", doc: "kinds:\n  severe: A\n  downgrade: A\n", want: "kinds.downgrade"},
		{name: "hard block without reason", doc: "hard_blocks:\n  - kind: A\n    markers: [x]\n", want: "hard_blocks[0].reason"},
		{name: "tier without markers", doc: "scoring:\n  severity_tiers:\n    - bonus: 1\n", want: "severity_tiers[0]"},
		{name: "bad pattern", doc: "evidence:\n  article_pattern: \"제(\"\n", want: "article_pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLLoader(strings.NewReader(tt.doc)).Load(true)
			require.Error(t, err)

			var ve *apperr.ValidationError
			assert.True(t, errors.As(err, &ve))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	_, err := NewYAMLLoader(strings.NewReader("weights: [unclosed")).Load(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode rule set")
}

func TestPreset(t *testing.T) {
	def, err := Preset("")
	require.NoError(t, err)
	assert.Equal(t, "default", def.Name)

	legacy, err := Preset("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", legacy.Name)
	assert.True(t, legacy.Excluded("AnswerValidity"))
	assert.Len(t, legacy.HardBlocks, 7)
	assert.Equal(t, 15.0, legacy.Thresholds.Reject)

	_, err = Preset("missing")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: file\nexcluded_kinds: [Overlap]\n"), 0o644))

	rs, err := Resolve(path, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "file", rs.Name)
	assert.True(t, rs.Excluded("Overlap"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestContainsAnyCompact(t *testing.T) {
	assert.True(t, ContainsAnyCompact("해석에 따라 다를 수 있다", []string{"해석에따라"}))
	assert.True(t, ContainsAnyCompact("다를수있음", []string{"수 있음"}))
	assert.False(t, ContainsAnyCompact("명백한 허구이다", []string{"추정", ""}))
	assert.False(t, ContainsAny("abc", []string{""}))
	assert.True(t, ContainsAny("abc", []string{"z", "b"}))
}
