package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/sdejongh/dircompare/pkg/models"
)

// HumanPrinter formats output in human-readable format
type HumanPrinter struct {
	opts   PrinterOptions
	colors map[models.State]*color.Color
}

// NewHumanPrinter creates a new human-readable printer
func NewHumanPrinter(opts PrinterOptions) *HumanPrinter {
	colors := map[models.State]*color.Color{
		models.StateEqual:    color.New(color.FgGreen),
		models.StateDistinct: color.New(color.FgYellow),
		models.StateLeft:     color.New(color.FgCyan),
		models.StateRight:    color.New(color.FgMagenta),
	}
	for _, c := range colors {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &HumanPrinter{opts: opts, colors: colors}
}

// Name returns the printer name
func (p *HumanPrinter) Name() string {
	return "human"
}

// Print writes one line per listed entry, the statistics table and the status
func (p *HumanPrinter) Print(w io.Writer, r *Report) error {
	res := r.Result

	fmt.Fprintf(w, "Comparing %s with %s (%s)\n\n", r.Left, r.Right, r.Mode)

	diffs := visible(res.DiffSet, p.opts.ShowEqual)
	for i := range diffs {
		p.printDifference(w, &diffs[i])
	}
	if len(diffs) > 0 {
		fmt.Fprintln(w)
	}

	p.printStatistics(w, &res.Statistics)

	fmt.Fprintf(w, "\nCompared %s entries in %s\n",
		humanize.Comma(int64(res.Total)), r.Duration.Round(time.Millisecond))
	status := res.Status()
	if status == models.StatusSame {
		p.colors[models.StateEqual].Fprintf(w, "Status: %s\n", status)
	} else {
		p.colors[models.StateDistinct].Fprintf(w, "Status: %s (%d differences)\n", status, res.Differences)
	}
	return nil
}

func (p *HumanPrinter) printDifference(w io.Writer, d *models.Difference) {
	line := fmt.Sprintf("[%s] %-9s %s", symbol(d.State), entryType(d), DisplayPath(d))
	if d.Reason != models.ReasonNone {
		line += " (" + string(d.Reason) + ")"
	} else if d.State == models.StateDistinct && d.Type1 != d.Type2 {
		line += fmt.Sprintf(" (%s vs %s)", d.Type1, d.Type2)
	}
	if d.State == models.StateDistinct && d.Reason == models.ReasonDifferentSize && d.Size1 != nil && d.Size2 != nil {
		line += fmt.Sprintf(" %s vs %s", humanize.IBytes(uint64(*d.Size1)), humanize.IBytes(uint64(*d.Size2)))
	}
	if d.State == models.StateDistinct && d.Reason == models.ReasonDifferentDate && d.Date1 != nil && d.Date2 != nil {
		line += " " + humanize.RelTime(*d.Date1, *d.Date2, "older", "newer")
	}
	p.colors[d.State].Fprintln(w, line)
}

func (p *HumanPrinter) printStatistics(w io.Writer, s *models.Statistics) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Equal", "Distinct", "Left only", "Right only", "Total"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	table.Append(row("Files", s.EqualFiles, s.DistinctFiles, s.LeftFiles, s.RightFiles, s.TotalFiles))
	table.Append(row("Dirs", s.EqualDirs, s.DistinctDirs, s.LeftDirs, s.RightDirs, s.TotalDirs))
	bl := s.BrokenLinks
	table.Append(row("Broken links", 0, bl.DistinctBrokenLinks, bl.LeftBrokenLinks, bl.RightBrokenLinks, bl.TotalBrokenLinks))
	pd := s.PermissionDenied
	table.Append(row("Denied", 0, pd.DistinctPermissionDenied, pd.LeftPermissionDenied, pd.RightPermissionDenied, pd.TotalPermissionDenied))
	if sl := s.Symlinks; sl != nil {
		table.Append(row("Symlinks", sl.EqualSymlinks, sl.DistinctSymlinks, sl.LeftSymlinks, sl.RightSymlinks, sl.TotalSymlinks))
	}
	table.Append(row("All", s.Equal, s.Distinct, s.Left, s.Right, s.Total))

	table.Render()
}

func row(label string, counts ...int) []string {
	out := []string{label}
	for _, c := range counts {
		out = append(out, strconv.Itoa(c))
	}
	return out
}

// entryType returns the type of whichever side exists, preferring the left
func entryType(d *models.Difference) models.EntryType {
	if d.Type1 != models.TypeMissing {
		return d.Type1
	}
	return d.Type2
}

// symbol returns the short marker of a state
func symbol(s models.State) string {
	switch s {
	case models.StateEqual:
		return "=="
	case models.StateDistinct:
		return "<>"
	case models.StateLeft:
		return "->"
	case models.StateRight:
		return "<-"
	default:
		return "??"
	}
}
