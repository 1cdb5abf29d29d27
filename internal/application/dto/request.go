// Package dto contains data transfer objects for application layer use cases.
package dto

// ToolchainOptions enumerates the options a toolchain call recognises.
// The zero value runs silently with no platform filter.
type ToolchainOptions struct {
	// Variables are plugin install variables, passed as KEY=VALUE
	Variables map[string]string

	// Platforms restricts the call to these platforms (empty = all)
	Platforms []string

	// Options are build options for prepare, build and run
	Options BuildOptions

	// Silent suppresses toolchain output
	Silent bool

	// Verbose asks the toolchain for diagnostic output
	Verbose bool

	// Link symlinks a local plugin instead of copying it
	Link bool
}

// BuildOptions control prepare, build and run.
type BuildOptions struct {
	// Target selects a device or emulator by id
	Target string

	// BuildConfig is a path to a toolchain build configuration file
	BuildConfig string

	// Extra arguments are passed through to the platform build after "--"
	Extra []string

	Release  bool
	Device   bool
	Emulator bool
}
