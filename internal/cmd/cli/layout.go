package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rzbill/flake/pkg/id"
	"github.com/spf13/cobra"
)

// newLayoutCommand constructs the `layout` subcommand.
func newLayoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the ID bit layout and when the timestamp field runs out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			epoch, err := cfg.EpochTime()
			if err != nil {
				return err
			}
			g, err := id.New(0, 0, id.WithEpoch(epoch))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tBITS\tSHIFT\tMAX")
			fmt.Fprintf(w, "unused\t%d\t%d\t%d\n", 1, 63, 0)
			fmt.Fprintf(w, "timestamp\t%d\t%d\t%d\n", id.TimestampBits, id.TimestampShift, int64(id.MaxTimestamp))
			fmt.Fprintf(w, "worker\t%d\t%d\t%d\n", id.WorkerIDBits, id.WorkerIDShift, id.MaxWorkerID)
			fmt.Fprintf(w, "datacenter\t%d\t%d\t%d\n", id.DataCenterBits, id.DataCenterShift, id.MaxDataCenterID)
			fmt.Fprintf(w, "sequence\t%d\t%d\t%d\n", id.SequenceBits, 0, id.MaxSequence)
			if err := w.Flush(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "epoch:    %s\n", g.Epoch().UTC().Format(time.RFC3339))
			fmt.Fprintf(out, "exhausts: %s\n", g.Exhausts().UTC().Format(time.RFC3339Nano))
			return nil
		},
	}
	cmd.Flags().String("epoch", "", "Epoch as RFC3339 (default Unix epoch)")
	return cmd
}
