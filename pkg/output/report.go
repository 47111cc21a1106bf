package output

import (
	"fmt"
	"os"
)

// WriteReportFile writes the report to path with the given format.
// Nothing is written when the trees are identical.
func WriteReportFile(r *Report, path string, format string) error {
	if r.Result.Same {
		return nil
	}

	printer, err := NewPrinter(format, PrinterOptions{})
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := printer.Print(file, r); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return file.Close()
}
