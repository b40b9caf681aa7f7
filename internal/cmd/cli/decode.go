package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type decoded struct {
	ID           string `json:"id"`
	Timestamp    int64  `json:"timestamp"`
	Time         string `json:"time"`
	WorkerID     int64  `json:"workerId"`
	DataCenterID int64  `json:"dataCenterId"`
	Sequence     int64  `json:"sequence"`
}

// newDecodeCommand constructs the `decode` subcommand.
func newDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <id>...",
		Short: "Split IDs into timestamp, worker, datacenter and sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			asJSON, _ := cmd.Flags().GetBool("json")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			epoch, err := cfg.EpochTime()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for _, arg := range args {
				v, err := parseID(arg, format)
				if err != nil {
					return err
				}
				p := v.Parts()
				d := decoded{
					ID:           v.String(),
					Timestamp:    p.Timestamp,
					Time:         v.Time(epoch).UTC().Format(time.RFC3339Nano),
					WorkerID:     p.WorkerID,
					DataCenterID: p.DataCenterID,
					Sequence:     p.Sequence,
				}
				if asJSON {
					if err := enc.Encode(d); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "id=%s timestamp=%d time=%s worker=%d datacenter=%d sequence=%d\n",
					d.ID, d.Timestamp, d.Time, d.WorkerID, d.DataCenterID, d.Sequence)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "dec", "Input format: dec|hex|base32|base36|base58")
	cmd.Flags().String("epoch", "", "Epoch as RFC3339 (default Unix epoch)")
	cmd.Flags().Bool("json", false, "Print one JSON object per ID")
	return cmd
}
