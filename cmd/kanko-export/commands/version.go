package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/kanko/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints build version information.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
