package display

import (
	"fmt"
	"io"
	"path/filepath"
)

// ProgressIndicator reports multi-file loading progress with ANSI colors.
type ProgressIndicator struct {
	writer     io.Writer
	totalFiles int
	current    int
}

// NewProgressIndicator creates a progress indicator for total files.
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{writer: w, totalFiles: total}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Loading questionnaire files:\n")
}

// Step displays progress for the current file: [N/Total] filename (cyan)
func (p *ProgressIndicator) Step(filename string) {
	p.current++
	fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s\x1b[0m\n", p.current, p.totalFiles, filepath.Base(filename))
}

// Complete displays the success line with a green checkmark
func (p *ProgressIndicator) Complete() {
	fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m Loaded %d questionnaire files\n", p.totalFiles)
}
