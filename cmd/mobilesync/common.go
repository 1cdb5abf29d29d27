package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/mobilesync/internal/infrastructure/output"
)

// CommonOptions contains flags shared across commands that talk to the
// toolchain.
type CommonOptions struct {
	// Output
	Format string

	// Execution
	Timeout time.Duration
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 0,
		Format:  output.FormatTable,
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Global timeout for the command (0 to disable)")
}

// RegisterFormatFlag adds the report format flag.
func (opts *CommonOptions) RegisterFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format,
		"Output format: "+strings.Join(output.SupportedFormats(), ", "))
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	if opts.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}

	return output.ValidateFormat(opts.Format)
}
