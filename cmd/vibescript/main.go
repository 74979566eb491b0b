// Command vibescript compiles and runs vibescript source files from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibescript/vibescript/internal/config"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/guard"
)

const version = "0.1.0"

// globalFlags holds the root command's persistent flags, read by every
// subcommand.
type globalFlags struct {
	capabilitiesCSV string
	preset          string
	instrBudget     int
	wallClockMillis int
	maxCallDepth    int
	maxStackDepth   int
	logLevel        string
}

var flags globalFlags

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "vibescript",
		Short:   "Compile and run vibescript programs",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(flags.logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.capabilitiesCSV, "capabilities", "", "comma-separated capability names (overrides --preset)")
	pf.StringVar(&flags.preset, "preset", "trusted", "named execution preset (trusted, sandboxed, preview-only)")
	pf.IntVar(&flags.instrBudget, "instruction-budget", 0, "override the preset's instruction budget")
	pf.IntVar(&flags.wallClockMillis, "wall-clock", 0, "override the preset's wall-clock limit, in milliseconds")
	pf.IntVar(&flags.maxCallDepth, "max-call-depth", 0, "override the preset's max call depth")
	pf.IntVar(&flags.maxStackDepth, "max-stack-depth", 0, "override the preset's max value-stack depth")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newRunCommand(),
		newCompileCommand(),
		newDisassembleCommand(),
		newPreviewCommand(),
		newReplCommand(),
		newDebugCommand(),
		newVersionCommand(),
	)
	return root
}

// resolveExecution applies --capabilities/--preset and the per-limit
// overrides to produce the capability set and limits a run should use.
func resolveExecution() (capability.Set, guard.ExecutionLimits, error) {
	presets, err := config.Load("")
	if err != nil {
		return capability.Set{}, guard.ExecutionLimits{}, err
	}
	preset, err := presets.Get(flags.preset)
	if err != nil {
		return capability.Set{}, guard.ExecutionLimits{}, err
	}

	caps := preset.Capabilities
	if flags.capabilitiesCSV != "" {
		caps = parseCapabilitiesCSV(flags.capabilitiesCSV)
	}

	limits := preset.Limits
	if flags.instrBudget > 0 {
		limits.InstructionBudget = flags.instrBudget
	}
	if flags.wallClockMillis > 0 {
		limits.WallClock = msToDuration(flags.wallClockMillis)
	}
	if flags.maxCallDepth > 0 {
		limits.MaxCallDepth = flags.maxCallDepth
	}
	if flags.maxStackDepth > 0 {
		limits.MaxValueStackDepth = flags.maxStackDepth
	}
	return caps, limits, nil
}
