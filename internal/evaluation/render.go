package evaluation

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aiprojectops/score-files/internal/cli"
	"github.com/aiprojectops/score-files/internal/model"
)

// Render writes the human-readable evaluation report to w.
func Render(w io.Writer, eval model.Evaluation) error {
	var b strings.Builder

	b.WriteString(renderOverall(eval))
	b.WriteString("\n\n")

	b.WriteString(cli.FormatSection(cli.CropIcon + " Accuracy by crop"))
	b.WriteString("\n")
	b.WriteString(renderCategories(eval.Categories))
	b.WriteString("\n\n")

	b.WriteString(renderMisclassified(eval.Misclassified))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func renderOverall(eval model.Evaluation) string {
	overall := eval.Overall
	lines := []string{
		fmt.Sprintf("Images evaluated : %5d", overall.Total),
		fmt.Sprintf("Correct          : %5d", overall.Correct),
		fmt.Sprintf("Incorrect        : %5d", overall.Incorrect()),
		"",
		cli.BoldStyle.Render(fmt.Sprintf("Accuracy         : %5.1f%%", overall.Accuracy)),
	}
	if eval.SkippedErrors > 0 {
		lines = append(lines, cli.SubtleStyle.Render(
			fmt.Sprintf("Skipped %d %s rows", eval.SkippedErrors, model.ErrorLabel)))
	}
	return cli.RenderBox(cli.ChartIcon+" Overall accuracy", strings.Join(lines, "\n"))
}

func renderCategories(stats []model.CategoryStatistics) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Crop", "Images", "Correct", "Accuracy", "Avg confidence"})
	for _, s := range stats {
		tw.AppendRow(table.Row{
			s.Label,
			s.Total,
			s.Correct,
			fmt.Sprintf("%.1f%%", s.Accuracy),
			fmt.Sprintf("%.1f%%", s.AvgConfidence*100),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderMisclassified(items []model.MisclassifiedItem) string {
	if len(items) == 0 {
		return cli.FormatSuccess("Every image was classified correctly")
	}

	var b strings.Builder
	b.WriteString(cli.FormatSection(cli.ErrorIcon + " Misclassified images"))
	b.WriteString("\n")
	for i, item := range items {
		rec := item.Record
		fmt.Fprintf(&b, "  %d. %s\n", i+1, rec.Filename)
		fmt.Fprintf(&b, "     expected : %s\n", rec.TrueLabel)
		fmt.Fprintf(&b, "     predicted: %s %s\n", cli.ErrorStyle.Render(rec.PredLabel),
			cli.SubtleStyle.Render(fmt.Sprintf("(confidence %.1f%%)", rec.PredConfidence*100)))
	}
	return strings.TrimRight(b.String(), "\n")
}
