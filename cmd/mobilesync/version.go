package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/mobilesync/internal/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mobilesync version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := version.Get()
		if versionShort {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "mobilesync version %s\n", info.Full())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}
