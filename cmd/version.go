package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/pullscroll/internal/version"
	"github.com/spf13/cobra"
)

var versionOutputWriter io.Writer = os.Stdout

// GetVersion returns the full version string.
func GetVersion() string {
	return version.String()
}

// PrintVersion writes the version line.
func PrintVersion() {
	fmt.Fprintf(versionOutputWriter, "pullscroll v%s\n", GetVersion())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		PrintVersion()
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
