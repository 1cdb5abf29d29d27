package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
)

// TableFormatter formats reports for a terminal.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns text in the given attribute if colors are enabled.
func (f *TableFormatter) colorize(text string, attr color.Attribute) string {
	// Enabled colors still follow fatih/color's terminal detection.
	c := color.New(attr)
	if !f.EnableColor {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// FormatPlan writes the sync plan.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) FormatPlan(plan dto.SyncPlan) error {
	if plan.InSync() {
		fmt.Fprintln(f.writer, f.colorize("Build project is in sync.", color.FgGreen))
		return nil
	}

	fmt.Fprintln(f.writer, f.colorize("Platforms:", color.Bold))
	f.formatChanges(plan.Platforms.Add, plan.Platforms.Remove)

	fmt.Fprintln(f.writer, f.colorize("Plugins:", color.Bold))
	for _, rn := range plan.Plugins.Renamed {
		fmt.Fprintf(f.writer, "  %s %s is now %s\n", f.colorize("~", color.FgYellow), rn.From, rn.To)
	}
	if plan.Plugins.ReinstallAll {
		fmt.Fprintln(f.writer, "  "+f.colorize("all non-local plugins will be reinstalled", color.FgYellow))
	}

	targets := make([]string, 0, len(plan.Plugins.Install))
	for _, in := range plan.Plugins.Install {
		if in.Target == in.Name {
			targets = append(targets, in.Name)
			continue
		}
		targets = append(targets, in.Name+" ("+in.Target+")")
	}
	f.formatChanges(targets, plan.Plugins.Remove)
	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatChanges(add, remove []string) {
	if len(add) == 0 && len(remove) == 0 {
		fmt.Fprintln(f.writer, "  "+f.colorize("no changes", color.FgHiBlack))
		return
	}
	for _, name := range add {
		fmt.Fprintf(f.writer, "  %s %s\n", f.colorize("+", color.FgGreen), name)
	}
	for _, name := range remove {
		fmt.Fprintf(f.writer, "  %s %s\n", f.colorize("-", color.FgRed), name)
	}
}

// FormatPlugins writes the plugin listing as aligned columns.
func (f *TableFormatter) FormatPlugins(plugins []dto.InstalledPlugin) error {
	if len(plugins) == 0 {
		_, err := fmt.Fprintln(f.writer, "No plugins installed.")
		return err
	}

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tINSTALLED\tDESIRED") //nolint:errcheck // flushed below
	for _, p := range plugins {
		installed := p.Version
		if installed == "" {
			installed = "-"
		}
		desired := p.Desired
		if desired == "" {
			desired = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, installed, desired) //nolint:errcheck // flushed below
	}
	return tw.Flush()
}
