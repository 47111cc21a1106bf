// Package output renders comparison results for people and scripts.
package output

import (
	"fmt"
	"io"
	"path"
	"time"

	"github.com/sdejongh/dircompare/pkg/dircompare"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Report is everything a printer needs about one finished comparison
type Report struct {
	Left     string
	Right    string
	Mode     models.Mode
	Duration time.Duration
	Result   *dircompare.Result
}

// Printer defines the interface for output formatting.
// Implementations include human-readable, JSON and CSV printers.
type Printer interface {
	// Print writes the report to w
	Print(w io.Writer, r *Report) error

	// Name returns the printer name
	Name() string
}

// PrinterOptions tunes the printers that support it
type PrinterOptions struct {
	// ShowEqual lists equal entries too
	ShowEqual bool
	// Color enables ANSI colours in human output
	Color bool
}

// NewPrinter returns the printer for format ("human", "json" or "csv")
func NewPrinter(format string, opts PrinterOptions) (Printer, error) {
	switch format {
	case "human", "":
		return NewHumanPrinter(opts), nil
	case "json":
		return NewJSONPrinter(opts), nil
	case "csv":
		return NewCSVPrinter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// DisplayPath returns the path of the compared entry relative to the roots
func DisplayPath(d *models.Difference) string {
	name := d.Name1
	if name == "" {
		name = d.Name2
	}
	return path.Join(d.RelativePath, name)
}

// visible filters the diffSet down to what the printer should list
func visible(diffs []models.Difference, showEqual bool) []models.Difference {
	if showEqual {
		return diffs
	}
	out := make([]models.Difference, 0, len(diffs))
	for _, d := range diffs {
		if d.State != models.StateEqual {
			out = append(out, d)
		}
	}
	return out
}
