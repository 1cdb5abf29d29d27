package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/reglet-dev/mobilesync/internal/application/ports"
)

// Console writes user-facing messages. Info and Success go to out; warnings,
// errors and hints go to errOut so they survive redirected reports.
type Console struct {
	out     io.Writer
	errOut  io.Writer
	success *color.Color
	warn    *color.Color
	err     *color.Color
	hint    *color.Color
}

// Compile-time interface check
var _ ports.Console = (*Console)(nil)

// NewConsole creates a console. Colors follow fatih/color's terminal
// detection unless noColor is set.
func NewConsole(out, errOut io.Writer, noColor bool) *Console {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	c := &Console{
		out:     out,
		errOut:  errOut,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed),
		hint:    color.New(color.FgGreen),
	}
	if noColor {
		for _, col := range []*color.Color{c.success, c.warn, c.err, c.hint} {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...) //nolint:errcheck // best-effort terminal output
}

func (c *Console) Success(format string, args ...any) {
	c.success.Fprintf(c.out, format+"\n", args...) //nolint:errcheck // best-effort terminal output
}

func (c *Console) Warn(format string, args ...any) {
	c.warn.Fprintf(c.errOut, format+"\n", args...) //nolint:errcheck // best-effort terminal output
}

func (c *Console) Error(format string, args ...any) {
	c.err.Fprintf(c.errOut, format+"\n", args...) //nolint:errcheck // best-effort terminal output
}

func (c *Console) Hint(format string, args ...any) {
	c.hint.Fprintf(c.errOut, format+"\n", args...) //nolint:errcheck // best-effort terminal output
}

// Progress prints plugin install progress as "[done/total]" lines.
type Progress struct {
	writer io.Writer
	label  string
}

// Compile-time interface check
var _ ports.ProgressReporter = (*Progress)(nil)

// NewProgress creates a progress reporter writing to w.
func NewProgress(w io.Writer, label string) *Progress {
	if w == nil {
		w = os.Stderr
	}
	if label == "" {
		label = "Installing plugins"
	}
	return &Progress{writer: w, label: label}
}

// Report implements ports.ProgressReporter. Nothing is printed for an
// empty batch.
func (p *Progress) Report(done, total int) {
	if total == 0 {
		return
	}
	fmt.Fprintf(p.writer, "%s [%d/%d]\n", p.label, done, total) //nolint:errcheck // best-effort terminal output
}
