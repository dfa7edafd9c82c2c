package rules

import (
	"fmt"
	"regexp"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
)

// Validate checks the rule set and compiles its patterns. It must succeed
// before the rule set is handed to the engine.
func (rs *RuleSet) Validate() error {
	if rs.Kinds.Severe == "" {
		return apperr.NewValidation("kinds.severe is required")
	}
	if rs.Kinds.Downgrade == "" {
		return apperr.NewValidation("kinds.downgrade is required")
	}
	if rs.Kinds.Severe == rs.Kinds.Downgrade {
		return apperr.NewValidation("kinds.downgrade must differ from kinds.severe")
	}

	for kind, w := range rs.Weights {
		if w < 0 {
			return apperr.NewValidation(fmt.Sprintf("weights[%s] must not be negative", kind))
		}
	}

	if rs.Thresholds.Reject <= 0 {
		return apperr.NewValidation("thresholds.reject must be positive")
	}
	if rs.Thresholds.Warn < 0 || rs.Thresholds.Warn > rs.Thresholds.Reject {
		return apperr.NewValidation("thresholds.warn must be between 0 and thresholds.reject")
	}

	if rs.Scoring.AssertivenessBonus < 0 {
		return apperr.NewValidation("scoring.assertiveness_bonus must not be negative")
	}
	for i, tier := range rs.Scoring.SeverityTiers {
		if tier.Bonus < 0 {
			return apperr.NewValidation(fmt.Sprintf("scoring.severity_tiers[%d].bonus must not be negative", i))
		}
		if len(tier.Markers) == 0 {
			return apperr.NewValidation(fmt.Sprintf("scoring.severity_tiers[%d] must have markers", i))
		}
	}
	for i, r := range rs.Scoring.Reinforcements {
		if r.Kind == "" {
			return apperr.NewValidation(fmt.Sprintf("scoring.reinforcements[%d].kind is required", i))
		}
		if r.Bonus < 0 {
			return apperr.NewValidation(fmt.Sprintf("scoring.reinforcements[%d].bonus must not be negative", i))
		}
		if len(r.Markers) == 0 {
			return apperr.NewValidation(fmt.Sprintf("scoring.reinforcements[%d] must have markers", i))
		}
	}

	for i, hb := range rs.HardBlocks {
		if hb.Kind == "" {
			return apperr.NewValidation(fmt.Sprintf("hard_blocks[%d].kind is required", i))
		}
		if hb.Reason == "" {
			return apperr.NewValidation(fmt.Sprintf("hard_blocks[%d].reason is required", i))
		}
		if len(hb.Markers) == 0 {
			return apperr.NewValidation(fmt.Sprintf("hard_blocks[%d] must have markers", i))
		}
	}

	return rs.compile()
}

func (rs *RuleSet) compile() error {
	article, err := compileOptional(rs.Evidence.ArticlePattern)
	if err != nil {
		return apperr.NewValidationWrap("invalid evidence.article_pattern", err)
	}
	caseNo, err := compileOptional(rs.Evidence.CaseNumberPattern)
	if err != nil {
		return apperr.NewValidationWrap("invalid evidence.case_number_pattern", err)
	}
	rs.articleRe = article
	rs.caseNoRe = caseNo
	return nil
}

func compileOptional(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}
