// Package aggregate keeps the cumulative score lists of a filtering run.
package aggregate

// RunAggregate holds every recorded score and its split by admission.
// len(All) == len(Passed) + len(Filtered) holds for every value produced by
// this package.
type RunAggregate struct {
	All      []float64 `json:"all"`
	Passed   []float64 `json:"passed"`
	Filtered []float64 `json:"filtered"`
}

func New() RunAggregate {
	return RunAggregate{
		All:      []float64{},
		Passed:   []float64{},
		Filtered: []float64{},
	}
}

// Record appends score to All and to Passed or Filtered.
func (a *RunAggregate) Record(admitted bool, score float64) {
	a.All = append(a.All, score)
	if admitted {
		a.Passed = append(a.Passed, score)
	} else {
		a.Filtered = append(a.Filtered, score)
	}
}

// Merge returns a new aggregate with the scores of other appended to a.
func (a RunAggregate) Merge(other RunAggregate) RunAggregate {
	out := New()
	out.All = append(append(out.All, a.All...), other.All...)
	out.Passed = append(append(out.Passed, a.Passed...), other.Passed...)
	out.Filtered = append(append(out.Filtered, a.Filtered...), other.Filtered...)
	return out
}

func (a RunAggregate) Consistent() bool {
	return len(a.All) == len(a.Passed)+len(a.Filtered)
}

func (a RunAggregate) Len() int {
	return len(a.All)
}

func (a RunAggregate) Empty() bool {
	return len(a.All) == 0 && len(a.Passed) == 0 && len(a.Filtered) == 0
}
