package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module/bisection"
)

var midpointCmd = &cobra.Command{
	Use:   "midpoint <idx1> <idx2>",
	Short: "Print the answer to a bisection round over the interval [idx1, idx2)",
	Args:  cobra.ExactArgs(2),
	RunE:  runMidpoint,
}

func runMidpoint(cmd *cobra.Command, args []string) error {
	idx1, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid idx1: %w", err)
	}
	idx2, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid idx2: %w", err)
	}

	action, step, err := bisection.Decide(dispute.Interval{Idx1: idx1, Idx2: idx2})
	if err != nil {
		return err
	}
	switch action {
	case bisection.Subdivide:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: report the state after step %d, %d rounds until a single step remains\n",
			action, step, bisection.Rounds(idx2-idx1))
	case bisection.PostPhases:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: post the phase states of step %d\n", action, step)
	}
	return nil
}
