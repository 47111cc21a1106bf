package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/sdejongh/dircompare/pkg/models"
)

var csvHeader = []string{
	"path", "state", "reason", "type1", "type2",
	"size1", "size2", "date1", "date2", "level", "permissionDenied",
}

// CSVPrinter writes one row per listed entry
type CSVPrinter struct {
	opts PrinterOptions
}

// NewCSVPrinter creates a new CSV printer
func NewCSVPrinter(opts PrinterOptions) *CSVPrinter {
	return &CSVPrinter{opts: opts}
}

// Name returns the printer name
func (p *CSVPrinter) Name() string {
	return "csv"
}

// Print writes the header and the rows
func (p *CSVPrinter) Print(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, d := range visible(r.Result.DiffSet, p.opts.ShowEqual) {
		if err := cw.Write(csvRow(&d)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(d *models.Difference) []string {
	return []string{
		DisplayPath(d),
		string(d.State),
		string(d.Reason),
		string(d.Type1),
		string(d.Type2),
		formatSize(d.Size1),
		formatSize(d.Size2),
		formatDate(d.Date1),
		formatDate(d.Date2),
		strconv.Itoa(d.Level),
		string(d.PermissionDeniedState),
	}
}

func formatSize(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
