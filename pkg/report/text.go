package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mpapenbr/tyrestrat/pkg/pipeline"
)

// WriteText writes a human readable report
func WriteText(w io.Writer, r *pipeline.Report) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run %s: %d drivers, %d laps, %d stints\n",
		r.RunID, r.Drivers, r.Laps, r.Summary.Stints)
	fmt.Fprintf(&sb, "Avg Stints - Med: %s, Hard: %s\n",
		fixed(r.Averages.Medium, 1), fixed(r.Averages.Hard, 1))

	sb.WriteString("\nDegradation models:\n")
	for _, s := range r.Model.States() {
		fmt.Fprintf(&sb, "- %s\n", s)
	}

	sb.WriteString("\nModel Prediction Accuracy (Mean Absolute Error):\n")
	fmt.Fprintf(&sb, "- Medium compound: %s seconds per lap\n", fixed(r.Accuracy.Medium, 3))
	fmt.Fprintf(&sb, "- Hard compound: %s seconds per lap\n", fixed(r.Accuracy.Hard, 3))

	fmt.Fprintf(&sb, "\n--- Strategies (Laps: %d, Pit Loss: %ss) ---\n",
		r.Config.TotalLaps, fixed(r.Config.PitLossSeconds, 1))
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, res := range r.Strategies.Results {
		stints := make([]string, 0, len(res.Parts))
		for _, sp := range res.Stints() {
			stints = append(stints, fmt.Sprintf("%s %d", sp.Compound().Short(), sp.Laps()))
		}
		fmt.Fprintf(tw, "- %s\t%ss\t(%d stops)\t%s\n",
			res.Name, fixed(res.TotalLoss, 2), res.Stops, strings.Join(stints, ", "))
	}
	return tw.Flush()
}
