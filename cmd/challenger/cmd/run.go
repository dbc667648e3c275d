package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/onflow/dispute-client/config"
	"github.com/onflow/dispute-client/model/dispute"
)

var (
	flagAssignment string
	flagResume     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the challenger node",
	Long: `Run the challenger node. With --assignment the assigned task is solved
once the node follows the contract events; challenges against the solution are
answered until the node is stopped. With --resume a task solved by an earlier
run is executed again to answer challenges, without submitting anything.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagAssignment, "assignment", "", "path of the task assignment (YAML or JSON)")
	runCmd.Flags().BoolVar(&flagResume, "resume", false, "resume an assignment solved by an earlier run instead of solving it")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var assignment *dispute.Assignment
	if flagAssignment != "" {
		assignment, err = config.LoadAssignment(flagAssignment)
		if err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	n, err := newNode(ctx, log, cfg)
	if err != nil {
		return err
	}
	return n.run(ctx, assignment, flagResume)
}
