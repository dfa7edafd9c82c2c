package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/pkg/utils"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== MCQA Filter Run %s ===\n\n", r.RunID)
	writeCounts(tw, r)
	writeTallies(tw, "Decision Reasons", "Reason", r.Reasons)
	writeTallies(tw, "Finding Kinds on Rejected Questions", "Kind", r.Kinds)
	writeStatsTable(tw, "Score Distribution (this run)", r.Run)
	writeStatsTable(tw, "Score Distribution (cumulative)", r.Cumulative)

	if r.Canceled {
		fmt.Fprintf(tw, "Run was interrupted. Resume with -start-line %d\n", r.NextLine)
	}

	tw.Flush()
}

func writeCounts(tw *tabwriter.Writer, r *Report) {
	writeHeader(tw, []string{"Processed", "Passed", "Warned", "Filtered", "Row Errors", "Written", "Lines", "Duration"})

	row := []string{
		fmt.Sprintf("%d", r.Processed),
		fmt.Sprintf("%d", r.Passed),
		fmt.Sprintf("%d", r.Warned),
		fmt.Sprintf("%d", r.Filtered),
		fmt.Sprintf("%d", r.RowErrors),
		fmt.Sprintf("%d", r.Written),
		fmt.Sprintf("%d-%d", r.StartLine, r.NextLine-1),
		fmtDuration(r.Duration),
	}
	fmt.Fprintln(tw, strings.Join(row, "\t"))
	fmt.Fprintln(tw)

	if r.Audited != nil {
		fmt.Fprintf(tw, "Audit entries stored for run: %d\n\n", *r.Audited)
	}
}

func writeTallies(tw *tabwriter.Writer, title, label string, tallies []Tally) {
	if len(tallies) == 0 {
		return
	}
	fmt.Fprintf(tw, "%s\n\n", title)
	writeHeader(tw, []string{label, "Count"})

	for _, t := range tallies {
		fmt.Fprintf(tw, "%s\t%d\n", t.Name, t.Count)
	}
	fmt.Fprintln(tw)
}

func writeStatsTable(tw *tabwriter.Writer, title string, set ScoreSet) {
	fmt.Fprintf(tw, "%s\n\n", title)
	writeHeader(tw, []string{"Set", "Min", "p50", "p75", "p90", "p95", "p99", "Max", "Mean", "Stddev", "Samples"})

	for _, named := range []struct {
		name  string
		stats ScoreStats
	}{
		{"all", set.All},
		{"passed", set.Passed},
		{"filtered", set.Filtered},
	} {
		s := named.stats
		row := []string{
			named.name,
			fmtScore(s, s.Min),
			fmtScore(s, s.P50()),
			fmtScore(s, s.P75()),
			fmtScore(s, s.P90()),
			fmtScore(s, s.P95()),
			fmtScore(s, s.P99()),
			fmtScore(s, s.Max),
			fmtScore(s, s.Mean),
			fmtScore(s, s.Stddev),
			fmt.Sprintf("%d", s.SampleCount),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	fmt.Fprintln(tw)
}

func writeHeader(tw *tabwriter.Writer, header []string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func fmtScore(s ScoreStats, v float64) string {
	if s.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%.2f", utils.RoundDecimal(v, 2))
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return d.Round(time.Millisecond).String()
}
