package output

import (
	"encoding/json"
	"io"

	"github.com/sdejongh/dircompare/pkg/models"
)

// JSONPrinter formats output as JSON for automation and scripting
type JSONPrinter struct {
	opts PrinterOptions
}

// JSONReport is the document written by JSONPrinter
type JSONReport struct {
	ID         string              `json:"id"`
	Left       string              `json:"left"`
	Right      string              `json:"right"`
	Mode       models.Mode         `json:"mode"`
	Status     models.Status       `json:"status"`
	Duration   string              `json:"duration"`
	DurationMs int64               `json:"duration_ms"`
	Statistics models.Statistics   `json:"statistics"`
	DiffSet    []models.Difference `json:"diffSet"`
}

// NewJSONPrinter creates a new JSON printer
func NewJSONPrinter(opts PrinterOptions) *JSONPrinter {
	return &JSONPrinter{opts: opts}
}

// Name returns the printer name
func (p *JSONPrinter) Name() string {
	return "json"
}

// Print writes the report as one indented JSON document
func (p *JSONPrinter) Print(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(p.document(r))
}

func (p *JSONPrinter) document(r *Report) JSONReport {
	diffs := visible(r.Result.DiffSet, p.opts.ShowEqual)
	if diffs == nil {
		diffs = []models.Difference{}
	}
	return JSONReport{
		ID:         r.Result.ID,
		Left:       r.Left,
		Right:      r.Right,
		Mode:       r.Mode,
		Status:     r.Result.Status(),
		Duration:   r.Duration.String(),
		DurationMs: r.Duration.Milliseconds(),
		Statistics: r.Result.Statistics,
		DiffSet:    diffs,
	}
}
