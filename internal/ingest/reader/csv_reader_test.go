package reader

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionsCSV = "\ufeffquestion,answer1,answer2,solution\n" +
	"정당방위의 요건은?,침해의 현재성,보충성,1\n" +
	"\"긴급피난, 요건은?\",상당성,균형성,2\n" +
	"short row,a\n"

func TestCSVReader_Records(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader(questionsCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"question", "answer1", "answer2", "solution"}, reader.Headers())

	var rows []Row
	for res := range reader.Stream(t.Context(), 1) {
		require.NoError(t, res.Err)
		rows = append(rows, res.Row)
	}
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, map[string]string{
		"question": "정당방위의 요건은?",
		"answer1":  "침해의 현재성",
		"answer2":  "보충성",
		"solution": "1",
	}, rows[0].Record)

	assert.Equal(t, "긴급피난, 요건은?", rows[1].Record["question"])
	assert.Equal(t, []string{"short row", "a", "", ""}, rows[2].Values)
	assert.Equal(t, "", rows[2].Record["solution"])
}

func TestCSVReader_EmptyInput(t *testing.T) {
	_, err := NewCSVReader(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header line")
}

func TestCSVReader_Stream(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader(questionsCSV))
	require.NoError(t, err)

	var indexes []int
	for res := range reader.Stream(t.Context(), 2) {
		require.NoError(t, res.Err)
		indexes = append(indexes, res.Row.Index)
	}
	assert.Equal(t, []int{2, 3}, indexes)
}

func TestCSVReader_StreamPastEnd(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader(questionsCSV))
	require.NoError(t, err)

	count := 0
	for range reader.Stream(t.Context(), 10) {
		count++
	}
	assert.Zero(t, count)
}

func TestCSVReader_StreamMalformed(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader("question\nok\n\"unterminated\n"))
	require.NoError(t, err)

	var results []RowResult
	for res := range reader.Stream(t.Context(), 1) {
		results = append(results, res)
	}
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func TestCSVReader_StreamCancelEarly(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader(questionsCSV))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	ch := reader.Stream(ctx, 1)

	first := <-ch
	require.NoError(t, first.Err)
	cancel()

	for range ch {
	}
	assert.Equal(t, 1, first.Row.Index)
}
