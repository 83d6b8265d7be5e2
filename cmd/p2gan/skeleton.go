package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tensorworks-llc/p2gan/calendar"
	"github.com/tensorworks-llc/p2gan/plan"
)

var skeletonCmd = &cobra.Command{
	Use:   "skeleton <name> <output.gan>",
	Short: "Write a generic six-phase project",
	Long: `Write a generic project with analysis, planning, implementation, testing,
documentation and deployment phases chained one after another.

The project starts today unless --start is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runSkeleton,
}

var skeletonStart time.Time

func init() {
	rootCmd.AddCommand(skeletonCmd)

	addDateFlag(skeletonCmd, &skeletonStart, "start", "Start date (YYYY-MM-DD, default today)")
}

func runSkeleton(cmd *cobra.Command, args []string) error {
	name, output := args[0], args[1]

	start := skeletonStart
	if start.IsZero() {
		start = calendar.Truncate(time.Now())
	}

	p := plan.Skeleton(name, start)
	if err := applyConfig(p); err != nil {
		return err
	}
	if _, err := resolve(p); err != nil {
		return err
	}
	if err := writeGan(cmd, p, output); err != nil {
		return err
	}

	if output != "-" {
		_, end := p.Span()
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d tasks from %s to %s\n",
			output, len(p.Flatten()), calendar.Format(p.Start), calendar.Format(end))
	}
	return nil
}
