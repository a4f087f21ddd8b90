package edstan

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
)

// SummaryRow pairs one posterior parameter with the group it belongs to.
// RawScore is filled only in person tables.
type SummaryRow struct {
	Group    string
	Stats    ParamSummary
	RawScore int
}

// SummaryTable is a rendered view over a fit: one row per parameter,
// grouped under item, person or distribution labels.
type SummaryTable struct {
	Title  string
	Rows   []SummaryRow
	HasRaw bool
}

// ItemSummary lays out the fit's item-side parameters: per item its
// discrimination (when the family varies them) and its step difficulties,
// then any shared rating-scale steps and the ability distribution
// parameters. Group labels carry the dataset's item labels.
func (f *Fit) ItemSummary() (*SummaryTable, error) {
	groups := groupParameters(f.Data.MaxScores, f.Family.SingleDiscrimination(), f.Family.SharedSteps(), f.Data.W.Cols)
	table := &SummaryTable{Title: f.Family.Label, Rows: make([]SummaryRow, 0, len(groups))}
	for _, g := range groups {
		stats, err := f.Posterior.Summary(g.Parameter)
		if err != nil {
			return nil, fmt.Errorf("item summary: %w", err)
		}
		label := g.Group
		if g.ItemIndex > 0 {
			label = f.Data.ItemLabels[g.ItemIndex-1]
		}
		table.Rows = append(table.Rows, SummaryRow{Group: label, Stats: stats})
	}
	return table, nil
}

// PersonSummary lays out one ability estimate per person alongside the
// person's raw sum score.
func (f *Fit) PersonSummary() (*SummaryTable, error) {
	raw := f.Data.RawScores()
	table := &SummaryTable{
		Title:  "Person abilities",
		Rows:   make([]SummaryRow, 0, f.Data.J),
		HasRaw: true,
	}
	for j := 1; j <= f.Data.J; j++ {
		stats, err := f.Posterior.Summary(fmt.Sprintf("theta[%d]", j))
		if err != nil {
			return nil, fmt.Errorf("person summary: %w", err)
		}
		table.Rows = append(table.Rows, SummaryRow{
			Group:    f.Data.PersonLabels[j-1],
			Stats:    stats,
			RawScore: raw[j-1],
		})
	}
	return table, nil
}

// Render writes the table as aligned text. Repeated group labels are
// blanked so each block reads as one unit.
func (t *SummaryTable) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if t.Title != "" {
		fmt.Fprintln(tw, t.Title)
	}
	header := "Group\tParameter\tMean\tSD\t2.5%\t25%\t50%\t75%\t97.5%\tR-hat"
	if t.HasRaw {
		header = "Group\tParameter\tRaw\tMean\tSD\t2.5%\t25%\t50%\t75%\t97.5%\tR-hat"
	}
	fmt.Fprintln(tw, header)

	prev := ""
	for _, row := range t.Rows {
		group := row.Group
		if group == prev {
			group = ""
		} else {
			prev = row.Group
		}
		s := row.Stats
		if t.HasRaw {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				group, s.Name, row.RawScore,
				fmtStat(s.Mean), fmtStat(s.SD), fmtStat(s.Q025), fmtStat(s.Q25),
				fmtStat(s.Median), fmtStat(s.Q75), fmtStat(s.Q975), fmtStat(s.Rhat))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			group, s.Name,
			fmtStat(s.Mean), fmtStat(s.SD), fmtStat(s.Q025), fmtStat(s.Q25),
			fmtStat(s.Median), fmtStat(s.Q75), fmtStat(s.Q975), fmtStat(s.Rhat))
	}
	return tw.Flush()
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
