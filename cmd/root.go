// Package cmd implements the pullscroll command line.
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/pullscroll/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "pullscroll",
	Short:         "A scroll container with pull-to-refresh and pull-to-load-more.",
	Long:          `A scroll container with pull-to-refresh and pull-to-load-more, driven by mouse drags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})
}

var commandOrder = []string{"demo", "version"}

func helpText(cmd *cobra.Command) string {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Name(), found.Short))
	}

	return fmt.Sprintf(`pullscroll %s

%s

USAGE:
    pullscroll [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, version.String(), cmd.Short, strings.Join(cmdLines, "\n"))
}
