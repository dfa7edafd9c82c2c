package rules

import (
	"embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var presets embed.FS

type YAMLLoader struct {
	reader io.Reader
}

func NewYAMLLoader(reader io.Reader) *YAMLLoader {
	return &YAMLLoader{
		reader: reader,
	}
}

// Load decodes a rule set. Sections left out of the document are taken from
// Default. Patterns are always compiled; validate additionally checks weights,
// tiers, hard blocks and thresholds.
func (l *YAMLLoader) Load(validate bool) (*RuleSet, error) {
	data, err := io.ReadAll(l.reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to decode rule set: %w", err)
	}
	var set presentScalars
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to decode rule set: %w", err)
	}
	rs.applyDefaults(Default(), set)

	if validate {
		if err := rs.Validate(); err != nil {
			return nil, err
		}
		return &rs, nil
	}
	if err := rs.compile(); err != nil {
		return nil, err
	}
	return &rs, nil
}

func LoadFile(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule set %s: %w", path, err)
	}
	defer f.Close()

	rs, err := NewYAMLLoader(f).Load(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule set %s: %w", path, err)
	}
	return rs, nil
}

// Preset returns a built-in rule set by name.
func Preset(name string) (*RuleSet, error) {
	if name == "" || name == "default" {
		return Default(), nil
	}

	f, err := presets.Open("presets/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown rule preset %q", name)
	}
	defer f.Close()

	return NewYAMLLoader(f).Load(true)
}

// Resolve loads the rule file at path when set and the named preset otherwise.
func Resolve(path, preset string) (*RuleSet, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Preset(preset)
}

// presentScalars records which numeric settings a rule file spells out, so
// an explicit zero is kept instead of being replaced by the default.
type presentScalars struct {
	Scoring struct {
		AssertivenessBonus *float64 `yaml:"assertiveness_bonus"`
	} `yaml:"scoring"`
	Thresholds struct {
		Reject *float64 `yaml:"reject"`
		Warn   *float64 `yaml:"warn"`
	} `yaml:"thresholds"`
}

func (rs *RuleSet) applyDefaults(def *RuleSet, set presentScalars) {
	if rs.Name == "" {
		rs.Name = "custom"
	}
	if rs.Kinds.Severe == "" {
		rs.Kinds.Severe = def.Kinds.Severe
	}
	if rs.Kinds.Downgrade == "" {
		rs.Kinds.Downgrade = def.Kinds.Downgrade
	}
	if rs.Weights == nil {
		rs.Weights = def.Weights
	}

	ev := &rs.Evidence
	if ev.AmbiguityMarkers == nil {
		ev.AmbiguityMarkers = def.Evidence.AmbiguityMarkers
	}
	if ev.AssertiveMarkers == nil {
		ev.AssertiveMarkers = def.Evidence.AssertiveMarkers
	}
	if ev.ArticlePattern == "" {
		ev.ArticlePattern = def.Evidence.ArticlePattern
	}
	if ev.NonexistenceMarkers == nil {
		ev.NonexistenceMarkers = def.Evidence.NonexistenceMarkers
	}
	if ev.AuthorityMarkers == nil {
		ev.AuthorityMarkers = def.Evidence.AuthorityMarkers
	}
	if ev.CaseNumberPattern == "" {
		ev.CaseNumberPattern = def.Evidence.CaseNumberPattern
	}
	if ev.ContradictionMarkers == nil {
		ev.ContradictionMarkers = def.Evidence.ContradictionMarkers
	}

	sc := &rs.Scoring
	if sc.AmbiguityMarkers == nil {
		sc.AmbiguityMarkers = def.Scoring.AmbiguityMarkers
	}
	if sc.SeverityTiers == nil {
		sc.SeverityTiers = def.Scoring.SeverityTiers
	}
	if sc.Reinforcements == nil {
		sc.Reinforcements = def.Scoring.Reinforcements
	}
	if set.Scoring.AssertivenessBonus == nil {
		sc.AssertivenessBonus = def.Scoring.AssertivenessBonus
	}

	if rs.HardBlocks == nil {
		rs.HardBlocks = def.HardBlocks
	}
	if set.Thresholds.Reject == nil {
		rs.Thresholds.Reject = def.Thresholds.Reject
	}
	if set.Thresholds.Warn == nil {
		rs.Thresholds.Warn = def.Thresholds.Warn
	}
}
