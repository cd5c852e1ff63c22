package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/aiprojectops/score-files/internal/engine"
	"github.com/aiprojectops/score-files/internal/model"
)

// ProgressPrinter reports batch progress on a terminal. It shows a progress
// bar and prints one status line per image.
type ProgressPrinter struct {
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	total       int
	mu          sync.Mutex
	showBar     bool
}

// NewProgressPrinter creates a printer writing to writer. When showBar is
// false only the status lines are printed.
func NewProgressPrinter(writer io.Writer, showBar bool) *ProgressPrinter {
	if writer == nil {
		writer = os.Stdout
	}
	return &ProgressPrinter{writer: writer, showBar: showBar}
}

var _ engine.ProgressReporter = (*ProgressPrinter)(nil)

// Start implements engine.ProgressReporter.
func (p *ProgressPrinter) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.printf("%s\n", FormatInfo(fmt.Sprintf("Classifying %d images", total)))
	if p.showBar {
		p.initProgressBar()
	}
}

// ImageSkipped implements engine.ProgressReporter.
func (p *ProgressPrinter) ImageSkipped(index int, filename string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clearBar()
	p.printf("%s %s\n", p.counter(index),
		FormatWarning(fmt.Sprintf("%s has no label, skipped", filename)))
	p.advance(filename)
}

// ImageClassified implements engine.ProgressReporter.
func (p *ProgressPrinter) ImageClassified(index int, record model.PredictionRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clearBar()
	p.printf("%s %s\n", p.counter(index), FormatRecord(record))
	p.advance(record.Filename)
}

// Finish implements engine.ProgressReporter.
func (p *ProgressPrinter) Finish(summary *engine.BatchSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progressBar != nil {
		if err := p.progressBar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
		p.progressBar = nil
	}
	if summary == nil {
		return
	}

	lines := fmt.Sprintf("Classified : %d\nCorrect    : %d\nErrors     : %d\nNo label   : %d",
		summary.Classified, summary.Correct, summary.Failed, summary.NoLabel)
	p.printf("\n%s\n", RenderBox(RobotIcon+" Classification summary", lines))
	if summary.Written {
		p.printf("%s\n", FormatSuccess("Predictions saved to "+summary.PredictionsPath))
	}
}

// FormatRecord renders one prediction as a status line.
func FormatRecord(record model.PredictionRecord) string {
	switch {
	case record.IsError():
		return ErrorStyle.Render(fmt.Sprintf("%s %s → %s", ErrorIcon, record.Filename, model.ErrorLabel))
	case record.IsCorrect():
		return SuccessStyle.Render(fmt.Sprintf("%s %s → %s (%.0f%%)",
			SuccessIcon, record.Filename, record.PredLabel, record.PredConfidence*100))
	default:
		return WarningStyle.Render(fmt.Sprintf("%s %s → %s (%.0f%%), expected %s",
			ErrorIcon, record.Filename, record.PredLabel, record.PredConfidence*100, record.TrueLabel))
	}
}

func (p *ProgressPrinter) counter(index int) string {
	return ProgressStyle.Render(fmt.Sprintf("[%d/%d]", index+1, p.total))
}

func (p *ProgressPrinter) initProgressBar() {
	p.progressBar = progressbar.NewOptions(p.total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Classifying images...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func (p *ProgressPrinter) clearBar() {
	if p.progressBar == nil {
		return
	}
	if err := p.progressBar.Clear(); err != nil {
		slog.Warn("Failed to clear progress bar", "error", err)
	}
}

func (p *ProgressPrinter) advance(filename string) {
	if p.progressBar == nil {
		return
	}
	p.progressBar.Describe("[cyan]" + filename + "[reset]")
	if err := p.progressBar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

func (p *ProgressPrinter) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.writer, format, args...); err != nil {
		slog.Warn("Failed to write progress", "error", err)
	}
}
