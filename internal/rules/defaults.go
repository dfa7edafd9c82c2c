package rules

// Default returns the rule set used for Korean legal MCQA verdicts.
func Default() *RuleSet {
	rs := &RuleSet{
		Name: "default",
		Kinds: Kinds{
			Severe:    "Hallucination",
			Downgrade: "SemanticDistance",
		},
		Weights: map[string]float64{
			"Hallucination":    20,
			"StructuralIssue":  5,
			"SemanticDistance": 5,
			"LogicalGap":       3,
			"Overlap":          3,
			"SemanticOverlap":  3,
		},
		Evidence: EvidenceRules{
			AmbiguityMarkers: []string{
				"같음", "보임", "듯", "추정", "가능", "가능성", "할수", "할 수", "볼수있", "볼 수 있",
				"해석에따라", "해석에 따라", "~로볼수", "~로 볼 수", "의견", "추측",
			},
			AssertiveMarkers:     []string{"이다", "임", "아니다", "아님", "단정", "명백", "확정"},
			ArticlePattern:       `제\s*\d+\s*조`,
			NonexistenceMarkers:  []string{"존재하지 않", "실재하지 않", "없는 조문", "허구", "창작", "날조"},
			AuthorityMarkers:     []string{"대법원", "헌법재판소", "선고", "사건번호", "전원합의체", "고등법원"},
			CaseNumberPattern:    `\d{4}\s*[\p{L}\p{N}_]+\s*\d+`,
			ContradictionMarkers: []string{"정면으로", "모순", "반함", "배치", "정반대"},
		},
		Scoring: ScoringRules{
			AmbiguityMarkers: []string{"수있음", "수있다", "수 있을", "보입니다", "없음", "있음", "가능성"},
			SeverityTiers: []SeverityTier{
				{Bonus: 3, Markers: []string{"치명", "전혀", "완전히", "불가능", "명백", "극단"}},
				{Bonus: 2, Markers: []string{"심각", "크다", "과도", "현저"}},
				{Bonus: 1, Markers: []string{"부분적", "경미", "일부"}},
			},
			Reinforcements: []Reinforcement{
				{Kind: "SemanticDistance", Bonus: 5, Markers: []string{"완전히 불일치", "전혀 관련없음", "완전히 다름"}},
				{Kind: "LogicalGap", Bonus: 4, Markers: []string{"논리적 근거 없이", "단독으로 등장", "근거 부족"}},
			},
			AssertivenessBonus: 2,
		},
		HardBlocks: []HardBlockRule{
			{
				Kind:    "Hallucination",
				Reason:  ReasonHallucinationHardBlock,
				Markers: []string{"존재하지 않는", "허구", "날조", "완전히 잘못된"},
			},
		},
		Thresholds: Thresholds{
			Reject: 15.0,
			Warn:   6.0,
		},
	}

	if err := rs.Validate(); err != nil {
		panic("rules: invalid default rule set: " + err.Error())
	}
	return rs
}
