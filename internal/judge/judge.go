// Package judge obtains raw quality verdicts for multiple-choice questions
// from an external model, or replays verdicts recorded earlier.
package judge

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/mcqa-filter/pkg/stringsutil"
)

const ChoiceCount = 5

// ResponseColumn holds a previously recorded raw judge response in input rows.
const ResponseColumn = "judge_response"

var ErrNoResponse = errors.New("row has no recorded judge response")

// Judge returns the raw text of a verdict for q.
type Judge interface {
	Judge(ctx context.Context, q Question) (string, error)
}

type Question struct {
	// Index is the 1-based row number in the input table.
	Index    int
	Text     string
	Choices  []string
	Solution string
	// Response is a recorded judge response, if the row carries one.
	Response string
}

// Preview returns the first n runes of the question text.
func (q Question) Preview(n int) string {
	return stringsutil.Truncate(q.Text, n)
}

// QuestionFromRecord maps an input row to a Question. Choices come from
// answer1..answer5 or, when those are absent, from an "options" column
// holding a JSON list or one choice per line.
func QuestionFromRecord(index int, rec map[string]string) Question {
	q := Question{
		Index:    index,
		Text:     field(rec, "question"),
		Solution: field(rec, "solution"),
		Response: field(rec, ResponseColumn),
	}
	if q.Solution == "" {
		q.Solution = field(rec, "answer")
	}

	choices := make([]string, ChoiceCount)
	found := false
	for i := range choices {
		choices[i] = field(rec, "answer"+strconv.Itoa(i+1))
		if choices[i] != "" {
			found = true
		}
	}
	if !found {
		if opts := parseOptions(field(rec, "options")); len(opts) > 0 {
			copy(choices, opts)
		}
	}
	q.Choices = choices
	return q
}

func field(rec map[string]string, key string) string {
	if v, ok := rec[key]; ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(rec["\ufeff"+key])
}

func parseOptions(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}

	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
