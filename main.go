package main

import (
	"os"

	"github.com/cottand/typealg/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "typealg [subcommand]",
	Short:        "typealg\n subtyping and type argument inference over declared generic hierarchies",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.AncestorsCmd)
}
