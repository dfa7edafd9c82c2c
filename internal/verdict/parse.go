package verdict

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
)

var (
	ErrNoJSONObject   = errors.New("no JSON object found in judge response")
	ErrUnbalancedJSON = errors.New("unbalanced braces in judge response")
)

// Parse extracts the JSON object from a raw judge response and decodes it
// into a Record. Failures are returned as *apperr.ParseError.
func Parse(raw string) (Record, error) {
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return Record{}, apperr.NewParse(apperr.ParseNoJSON, err)
	}
	return Decode([]byte(obj))
}

// ExtractJSONObject returns the outermost balanced {...} block of text.
// A ```json (or bare ```) fence opening before the first brace is preferred
// when its body holds a balanced object; otherwise the whole text is scanned.
func ExtractJSONObject(text string) (string, error) {
	first := strings.IndexByte(text, '{')
	if first < 0 {
		return "", ErrNoJSONObject
	}

	if body, at, ok := fenced(text); ok && at < first {
		if obj, err := scanObject(body); err == nil {
			return obj, nil
		}
	}
	return scanObject(text)
}

// scanObject returns the first balanced object of text, skipping braces
// inside string literals.
func scanObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrUnbalancedJSON
}

// fenced returns the body of the first code fence and the fence offset.
func fenced(text string) (string, int, bool) {
	at := strings.Index(text, "```")
	if at < 0 {
		return "", 0, false
	}
	body := strings.TrimPrefix(text[at+3:], "json")
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return body, at, true
}

// Decode builds a Record from a JSON object. A missing, null or non-list
// "errors" member yields no findings; non-object entries are skipped.
func Decode(data []byte) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, apperr.NewParse(apperr.ParseNotObject, nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Record{}, apperr.NewParse(apperr.ParseInvalidJSON, err)
	}

	return Record{
		Validity:         stringField(fields["validity"]),
		Errors:           decodeFindings(fields["errors"]),
		Recommendation:   stringField(fields["recommendation"]),
		DifficultyScore:  nonNull(fields["difficulty_score"]),
		DetailedAnalysis: nonNull(fields["detailed_analysis"]),
	}, nil
}

func decodeFindings(raw json.RawMessage) []Finding {
	findings := make([]Finding, 0)
	if len(raw) == 0 {
		return findings
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return findings
	}

	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			continue
		}
		findings = append(findings, Finding{
			Kind:    stringField(obj["type"]),
			Comment: stringField(obj["comment"]),
		})
	}
	return findings
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	return raw
}
