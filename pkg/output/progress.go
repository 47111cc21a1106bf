package output

import (
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate pb.ProgressBarTemplate = `{{string . "prefix"}}{{counters . }} entries {{speed . "%s/s" "?"}} {{etime . }}`

// ProgressBar counts processed entries on a terminal.
// The total is unknown while the trees are walked, so it shows a running count.
type ProgressBar struct {
	bar *pb.ProgressBar
}

// NewProgressBar starts a bar writing to w
func NewProgressBar(w io.Writer) *ProgressBar {
	bar := progressTemplate.New(0)
	bar.SetWriter(w)
	bar.SetRefreshRate(100 * time.Millisecond)
	bar.Set("prefix", "Comparing ")
	bar.Start()
	return &ProgressBar{bar: bar}
}

// Increment implements dircompare.Progress
func (p *ProgressBar) Increment() {
	p.bar.Increment()
}

// Count returns the number of increments so far
func (p *ProgressBar) Count() int64 {
	return p.bar.Current()
}

// Finish stops the bar and prints its final state
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
