package cli

import (
	"fmt"

	"github.com/rzbill/flake/internal/runtime"
	logpkg "github.com/rzbill/flake/pkg/log"
	"github.com/spf13/cobra"
)

// newNextCommand constructs the `next` subcommand.
func newNextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Generate IDs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			format, _ := cmd.Flags().GetString("format")
			persist, _ := cmd.Flags().GetBool("persist")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			if _, err := encodeID(0, format); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("persist") {
				cfg.HighWater.Enabled = persist
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			logger, err := logpkg.ApplyConfig(&cfg.Log)
			if err != nil {
				return err
			}

			rt, err := runtime.Open(cmd.Context(), runtime.Options{Config: cfg, Logger: logger})
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				s, _ := encodeID(rt.Next(), format)
				fmt.Fprintln(out, s)
			}
			return rt.Close()
		},
	}
	cmd.Flags().Int64("worker", 0, "Worker ID [0, 31]")
	cmd.Flags().Int64("datacenter", 0, "Datacenter ID [0, 31]")
	cmd.Flags().String("epoch", "", "Epoch as RFC3339 (default Unix epoch)")
	cmd.Flags().IntP("count", "n", 1, "Number of IDs to generate")
	cmd.Flags().String("format", "dec", "Output format: dec|hex|base32|base36|base58")
	cmd.Flags().Bool("persist", false, "Persist the clock high-water mark across runs")
	cmd.Flags().String("data-dir", "", "Data directory for --persist (default OS data dir)")
	return cmd
}
