package cmd

import (
	"fmt"
	"log/slog"

	"github.com/cottand/typealg/internal/log"
	"github.com/cottand/typealg/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var AncestorsCmd = &cobra.Command{
	Use:          "ancestors file.yaml class",
	Short:        "List the ancestors of a class, nearest first",
	RunE:         runAncestors,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

func runAncestors(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(logLevel))

	f, err := readFile(args[0])
	if err != nil {
		return err
	}
	table, err := f.declare()
	if err != nil {
		return errors.Wrapf(err, "invalid declarations in %s", args[0])
	}
	d, ok := table.Lookup(args[1])
	if !ok {
		return errors.Errorf("no class %s in %s", args[1], args[0])
	}
	engine := types.NewEngine(table, engineOptions()...)
	ancestors, err := engine.Ancestors(d.Raw())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, a := range ancestors {
		if _, err := fmt.Fprintln(out, a.Name); err != nil {
			return err
		}
	}
	return nil
}
