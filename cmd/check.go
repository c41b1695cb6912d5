package cmd

import (
	"log/slog"

	"github.com/cottand/typealg/internal/log"
	"github.com/cottand/typealg/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:          "check file.yaml",
	Short:        "Evaluate the queries of a hierarchy file",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	strict       bool
	maxDepth     int
	fuel         int
	maxDisjuncts int
	logLevel     int
)

func init() {
	CheckCmd.Flags().BoolVar(&strict, "strict", false, "fail if any query does not match its expectation")
	addEngineFlags(CheckCmd)
	addEngineFlags(AncestorsCmd)
}

// addEngineFlags registers the flags of every command building an engine
func addEngineFlags(c *cobra.Command) {
	c.Flags().IntVar(&maxDepth, "max-depth", types.DefaultMaxDepth, "maximum nesting of a single relation")
	c.Flags().IntVar(&fuel, "fuel", types.DefaultFuel, "maximum relation steps per query")
	c.Flags().IntVar(&maxDisjuncts, "max-disjuncts", types.DefaultMaxDisjuncts, "maximum alternative solutions per query")
	c.Flags().IntVarP(&logLevel, "log-level", "l", int(slog.LevelWarn), "log level")
}

func engineOptions() []types.Option {
	return []types.Option{
		types.WithMaxDepth(maxDepth),
		types.WithFuel(fuel),
		types.WithMaxDisjuncts(maxDisjuncts),
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(logLevel))

	f, err := readFile(args[0])
	if err != nil {
		return err
	}
	table, err := f.declare()
	if err != nil {
		return errors.Wrapf(err, "invalid declarations in %s", args[0])
	}
	engine := types.NewEngine(table, engineOptions()...)
	mismatches, err := evaluate(cmd.OutOrStdout(), f, table, engine)
	if err != nil {
		return err
	}
	if strict && mismatches > 0 {
		return errors.Errorf("%d queries did not match their expectation", mismatches)
	}
	return nil
}
