package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/internal/config"
	"github.com/matzehuels/labyrinth/pkg/archive"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List recent generation runs",
		Long: `List recent generation runs, newest first, or show one run by id.

History is kept in MongoDB; configure it with [archive] backend = "mongo".
Re-create any listed maze with "labyrinth generate --seed <seed>".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg().Archive.Backend != config.ArchiveMongo {
				return errNoHistory
			}
			store, err := c.newArchive(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close(context.WithoutCancel(cmd.Context()))

			if len(args) == 1 {
				return showRecord(cmd.Context(), store, args[0])
			}
			return listRecords(cmd.Context(), store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")

	return cmd
}

func listRecords(ctx context.Context, store archive.Store, limit int) error {
	records, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(records) == 0 {
		printInfo("No runs recorded yet")
		return nil
	}
	for _, rec := range records {
		printRecordLine(rec)
	}
	return nil
}

func showRecord(ctx context.Context, store archive.Store, id string) error {
	rec, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	printKeyValue("id", rec.ID)
	printKeyValue("size", fmt.Sprintf("%dx%d", rec.Width, rec.Height))
	printKeyValue("seed", fmt.Sprint(rec.Seed))
	printKeyValue("deepest", fmt.Sprintf("%s at depth %d", rec.Deepest, rec.DeepestLen))
	printKeyValue("steps", fmt.Sprintf("%d (%d backtracks, max stack %d)",
		rec.Stats.Steps(), rec.Stats.Backtracks, rec.Stats.MaxStack))
	printKeyValue("formats", fmt.Sprint(rec.Formats))
	printKeyValue("origin", rec.Origin)
	printKeyValue("created", rec.CreatedAt.Local().Format(time.DateTime))
	printKeyValue("duration", rec.Duration.Round(time.Millisecond).String())
	return nil
}

// printRecordLine prints one run as a single summary line.
func printRecordLine(rec archive.Record) {
	cached := ""
	if rec.CacheHit {
		cached = " " + styleCached.Render(iconCached)
	}
	fmt.Printf("%s  %s  %s  seed %s%s\n",
		StyleDim.Render(rec.CreatedAt.Local().Format(time.DateTime)),
		StyleDim.Render(rec.ID[:min(8, len(rec.ID))]),
		StyleValue.Render(fmt.Sprintf("%dx%d", rec.Width, rec.Height)),
		StyleNumber.Render(fmt.Sprint(rec.Seed)),
		cached)
}
