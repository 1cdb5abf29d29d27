// Package main provides the mobilesync CLI, which keeps a generated mobile
// build project in sync with the project manifest.
package main

import (
	"log/slog"
	"os"

	apperrors "github.com/reglet-dev/mobilesync/internal/application/errors"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and maps the outcome to an exit status. Failures that
// were already reported to the user exit quietly with their own code.
func run() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	if code, ok := apperrors.ExitCode(err); ok {
		return code
	}
	slog.Error("command failed", "error", err)
	return 1
}
