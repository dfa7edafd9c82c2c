package es

import (
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// AuditDocument is the indexed shape of a storage.AuditEntry.
type AuditDocument struct {
	ID              string         `json:"id"`
	RunID           string         `json:"run_id"`
	QuestionIndex   int            `json:"question_index"`
	QuestionPreview string         `json:"question_preview"`
	Errors          []FindingField `json:"errors"`
	ErrorKinds      []string       `json:"error_kinds"`
	Score           float64        `json:"score"`
	Outcome         string         `json:"outcome"`
	Reasons         []string       `json:"reasons"`
	CreatedAt       time.Time      `json:"created_at"`
	IndexedAt       time.Time      `json:"indexed_at"`
}

type FindingField struct {
	Type    string `json:"type"`
	Comment string `json:"comment"`
}

type IndexBuilder struct {
	analyzer string
}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{
		analyzer: "audit_text_analyzer",
	}
}

func (b *IndexBuilder) mapToESDocument(e storage.AuditEntry) AuditDocument {
	findings := make([]FindingField, 0, len(e.Errors))
	kinds := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors {
		findings = append(findings, FindingField{Type: f.Kind, Comment: f.Comment})
		kinds = append(kinds, f.Kind)
	}

	return AuditDocument{
		ID:              e.ID.String(),
		RunID:           e.RunID,
		QuestionIndex:   e.QuestionIndex,
		QuestionPreview: e.QuestionPreview,
		Errors:          findings,
		ErrorKinds:      kinds,
		Score:           e.Score,
		Outcome:         e.Outcome,
		Reasons:         e.Reasons,
		CreatedAt:       e.CreatedAt,
		IndexedAt:       time.Now().UTC(),
	}
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				b.analyzer: types.StandardAnalyzer{
					Stopwords: []string{"_none_"},
				},
			},
		},
	}
}

func (b *IndexBuilder) buildMapping() types.TypeMapping {
	errorsProp := types.NewNestedProperty()
	errorsProp.Properties = map[string]types.Property{
		"type":    types.NewKeywordProperty(),
		"comment": b.createTextProperty(b.analyzer),
	}

	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":               types.NewKeywordProperty(),
			"run_id":           types.NewKeywordProperty(),
			"question_index":   types.NewIntegerNumberProperty(),
			"question_preview": b.createTextProperty(b.analyzer),
			"errors":           errorsProp,
			"error_kinds":      types.NewKeywordProperty(),
			"score":            types.NewDoubleNumberProperty(),
			"outcome":          types.NewKeywordProperty(),
			"reasons":          types.NewKeywordProperty(),
			"created_at":       types.NewDateProperty(),
			"indexed_at":       types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) createTextProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}
