// Package rules holds the keyword tables that drive the evidence gate, the
// risk scorer and the admission thresholds. Rule sets are plain data so they
// can be swapped per domain without touching the engine.
package rules

import (
	"regexp"
	"slices"
)

type RuleSet struct {
	Name          string             `yaml:"name" json:"name"`
	Kinds         Kinds              `yaml:"kinds" json:"kinds"`
	Weights       map[string]float64 `yaml:"weights" json:"weights"`
	ExcludedKinds []string           `yaml:"excluded_kinds" json:"excluded_kinds,omitempty"`
	Evidence      EvidenceRules      `yaml:"evidence" json:"evidence"`
	Scoring       ScoringRules       `yaml:"scoring" json:"scoring"`
	HardBlocks    []HardBlockRule    `yaml:"hard_blocks" json:"hard_blocks"`
	Thresholds    Thresholds         `yaml:"thresholds" json:"thresholds"`

	articleRe *regexp.Regexp
	caseNoRe  *regexp.Regexp
}

// Kinds names the finding kind subject to the evidence gate and the kind
// unevidenced findings are reclassified to.
type Kinds struct {
	Severe    string `yaml:"severe" json:"severe"`
	Downgrade string `yaml:"downgrade" json:"downgrade"`
}

type EvidenceRules struct {
	AmbiguityMarkers     []string `yaml:"ambiguity_markers" json:"ambiguity_markers"`
	AssertiveMarkers     []string `yaml:"assertive_markers" json:"assertive_markers"`
	ArticlePattern       string   `yaml:"article_pattern" json:"article_pattern"`
	NonexistenceMarkers  []string `yaml:"nonexistence_markers" json:"nonexistence_markers"`
	AuthorityMarkers     []string `yaml:"authority_markers" json:"authority_markers"`
	CaseNumberPattern    string   `yaml:"case_number_pattern" json:"case_number_pattern"`
	ContradictionMarkers []string `yaml:"contradiction_markers" json:"contradiction_markers"`
}

type ScoringRules struct {
	AmbiguityMarkers   []string        `yaml:"ambiguity_markers" json:"ambiguity_markers"`
	SeverityTiers      []SeverityTier  `yaml:"severity_tiers" json:"severity_tiers"`
	Reinforcements     []Reinforcement `yaml:"reinforcements" json:"reinforcements"`
	AssertivenessBonus float64         `yaml:"assertiveness_bonus" json:"assertiveness_bonus"`
}

// SeverityTier adds Bonus when a comment contains any of Markers. Only the
// first matching tier counts, so tiers are listed from most to least severe.
type SeverityTier struct {
	Bonus   float64  `yaml:"bonus" json:"bonus"`
	Markers []string `yaml:"markers" json:"markers"`
}

type Reinforcement struct {
	Kind    string   `yaml:"kind" json:"kind"`
	Bonus   float64  `yaml:"bonus" json:"bonus"`
	Markers []string `yaml:"markers" json:"markers"`
}

// HardBlockRule rejects a question outright when a finding of Kind has a
// comment containing any of Markers.
type HardBlockRule struct {
	Kind    string   `yaml:"kind" json:"kind"`
	Reason  string   `yaml:"reason" json:"reason"`
	Markers []string `yaml:"markers" json:"markers"`
}

type Thresholds struct {
	Reject float64 `yaml:"reject" json:"reject"`
	Warn   float64 `yaml:"warn" json:"warn"`
}

const ReasonHallucinationHardBlock = "hallucination_hard_block"

func (rs *RuleSet) Weight(kind string) float64 {
	return rs.Weights[kind]
}

func (rs *RuleSet) Excluded(kind string) bool {
	return slices.Contains(rs.ExcludedKinds, kind)
}

// ArticlePattern returns the compiled statute article pattern, or nil when
// the rule set does not define one.
func (rs *RuleSet) ArticlePattern() *regexp.Regexp {
	return rs.articleRe
}

func (rs *RuleSet) CaseNumberPattern() *regexp.Regexp {
	return rs.caseNoRe
}
