package batch

import (
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/aggregate"
)

// Summary describes one run of the controller.
type Summary struct {
	RunID     string `json:"run_id"`
	StartLine int    `json:"start_line"`
	// NextLine is the start line that resumes after the last written row.
	NextLine  int  `json:"next_line"`
	Processed int  `json:"processed"`
	Passed    int  `json:"passed"`
	Warned    int  `json:"warned"`
	Filtered  int  `json:"filtered"`
	RowErrors int  `json:"row_errors"`
	Canceled  bool `json:"canceled"`
	// Audited is the number of audit entries the store holds for RunID. It
	// is nil when the store cannot count them.
	Audited *int `json:"audited,omitempty"`

	Reasons map[string]int `json:"reasons"`
	// Kinds counts finding kinds on rejected rows.
	Kinds map[string]int `json:"kinds"`

	Run        aggregate.RunAggregate `json:"-"`
	Cumulative aggregate.RunAggregate `json:"-"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

func newSummary(runID string, startLine int) *Summary {
	return &Summary{
		RunID:      runID,
		StartLine:  startLine,
		NextLine:   startLine,
		Reasons:    make(map[string]int),
		Kinds:      make(map[string]int),
		Run:        aggregate.New(),
		Cumulative: aggregate.New(),
		StartedAt:  time.Now(),
	}
}

// Written is the number of rows appended to the output table.
func (s *Summary) Written() int {
	return s.Passed + s.Warned + s.RowErrors
}
