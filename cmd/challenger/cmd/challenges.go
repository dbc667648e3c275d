package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/onflow/dispute-client/config"
	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/storage"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List the challenges stored in the challenge database",
	RunE:  runChallenges,
}

func runChallenges(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Decode(cmd.Flags(), flagConfig)
	if err != nil {
		return err
	}
	if cfg.Storage == config.StorageMemory {
		return errors.New("the memory storage engine does not persist challenges")
	}

	challenges, progress, closer, err := initStorage(cfg.Storage, cfg.DataDir)
	if err != nil {
		return err
	}
	defer closer.Close()

	all, err := challenges.All()
	if err != nil {
		return fmt.Errorf("could not read challenges: %w", err)
	}
	slices.SortFunc(all, func(a, b *dispute.Challenge) int {
		switch {
		case a.TaskID < b.TaskID:
			return -1
		case a.TaskID > b.TaskID:
			return 1
		default:
			return bytes.Compare(a.ID[:], b.ID[:])
		}
	})

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Challenge", "Task", "Kind", "Challenger", "Interval", "State", "Phase"})
	for _, c := range all {
		table.Append([]string{
			c.ID.String(),
			c.TaskID.String(),
			c.Kind.String(),
			c.Challenger.Hex(),
			c.Interval.String(),
			c.State.String(),
			c.Phase.String(),
		})
	}
	table.Render()

	checkpoint, err := progress.ProcessedIndex()
	switch {
	case err == nil:
		fmt.Fprintf(cmd.OutOrStdout(), "event checkpoint: block %s\n", strconv.FormatUint(checkpoint, 10))
	case errors.Is(err, storage.ErrNotFound):
		fmt.Fprintln(cmd.OutOrStdout(), "event checkpoint: none")
	default:
		return fmt.Errorf("could not read event checkpoint: %w", err)
	}
	return nil
}
