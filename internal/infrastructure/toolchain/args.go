package toolchain

import (
	"sort"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
)

// outputFlags maps verbosity onto the toolchain's global flags.
func outputFlags(opts dto.ToolchainOptions) []string {
	switch {
	case opts.Verbose:
		return []string{"--verbose"}
	case opts.Silent:
		return []string{"--silent"}
	default:
		return nil
	}
}

func platformArgs(sub string, names []string, opts dto.ToolchainOptions) []string {
	args := append([]string{"platform", sub}, names...)
	return append(args, outputFlags(opts)...)
}

func pluginAddArgs(target string, opts dto.ToolchainOptions) []string {
	args := []string{"plugin", "add", target}

	keys := make([]string, 0, len(opts.Variables))
	for k := range opts.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--variable", k+"="+opts.Variables[k])
	}

	if opts.Link {
		args = append(args, "--link")
	}
	return append(args, outputFlags(opts)...)
}

func pluginRemoveArgs(names []string, opts dto.ToolchainOptions) []string {
	args := append([]string{"plugin", "rm"}, names...)
	return append(args, outputFlags(opts)...)
}

// buildArgs is shared by prepare, build and run. Extra arguments go to the
// platform build after "--".
func buildArgs(command string, opts dto.ToolchainOptions) []string {
	args := append([]string{command}, opts.Platforms...)
	b := opts.Options
	if b.Release {
		args = append(args, "--release")
	}
	if b.Device {
		args = append(args, "--device")
	}
	if b.Emulator {
		args = append(args, "--emulator")
	}
	if b.Target != "" {
		args = append(args, "--target="+b.Target)
	}
	if b.BuildConfig != "" {
		args = append(args, "--buildConfig="+b.BuildConfig)
	}
	args = append(args, outputFlags(opts)...)
	if len(b.Extra) > 0 {
		args = append(args, "--")
		args = append(args, b.Extra...)
	}
	return args
}

func requirementsArgs(opts dto.ToolchainOptions) []string {
	args := append([]string{"requirements"}, opts.Platforms...)
	return append(args, "--json")
}
