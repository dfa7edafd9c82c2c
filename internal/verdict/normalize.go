package verdict

import "strings"

// CommentSeparator joins distinct comments of findings that share a kind.
const CommentSeparator = "; "

// Normalize returns a copy of r whose findings are merged by kind.
func Normalize(r Record) Normalized {
	out := r.clone()
	out.Errors = MergeByKind(r.Errors)
	return Normalized{Record: out}
}

// MergeByKind trims kinds and comments, drops findings without a kind and
// folds findings of the same kind into one. Kinds keep the order of their
// first appearance. Comments are compared per "; " segment, so a segment
// already present in the merged comment is not appended again.
func MergeByKind(findings []Finding) []Finding {
	type group struct {
		segments []string
		seen     map[string]struct{}
	}

	order := make([]string, 0, len(findings))
	groups := make(map[string]*group, len(findings))

	for _, f := range findings {
		kind := strings.TrimSpace(f.Kind)
		if kind == "" {
			continue
		}
		g, ok := groups[kind]
		if !ok {
			g = &group{seen: make(map[string]struct{})}
			groups[kind] = g
			order = append(order, kind)
		}

		for _, seg := range strings.Split(f.Comment, CommentSeparator) {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			if _, dup := g.seen[seg]; dup {
				continue
			}
			g.seen[seg] = struct{}{}
			g.segments = append(g.segments, seg)
		}
	}

	merged := make([]Finding, 0, len(order))
	for _, kind := range order {
		merged = append(merged, Finding{
			Kind:    kind,
			Comment: strings.Join(groups[kind].segments, CommentSeparator),
		})
	}
	return merged
}
