package cli

import (
	"fmt"
	"strings"

	cfgpkg "github.com/rzbill/flake/internal/config"
	"github.com/rzbill/flake/pkg/id"
	"github.com/spf13/cobra"
)

// NewRoot constructs the root Cobra command and registers subcommands.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "flake",
		Short:         "Generate and inspect 64-bit time-ordered IDs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (.json, .yaml)")
	root.PersistentFlags().String("env-file", ".env", "Optional KEY=VALUE file loaded before FLAKE_* variables")
	root.AddCommand(newNextCommand(), newDecodeCommand(), newLayoutCommand())
	return root
}

// loadConfig resolves configuration from file, environment and flags.
func loadConfig(cmd *cobra.Command) (cfgpkg.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := cfgpkg.LoadDotEnv(envFile); err != nil {
		return cfgpkg.Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	cfgpkg.FromEnv(&cfg)

	flags := cmd.Flags()
	if flags.Lookup("worker") != nil && flags.Changed("worker") {
		cfg.WorkerID, _ = flags.GetInt64("worker")
	}
	if flags.Lookup("datacenter") != nil && flags.Changed("datacenter") {
		cfg.DataCenterID, _ = flags.GetInt64("datacenter")
	}
	if flags.Lookup("epoch") != nil && flags.Changed("epoch") {
		cfg.Epoch, _ = flags.GetString("epoch")
	}
	return cfg, nil
}

var formats = []string{"dec", "hex", "base32", "base36", "base58"}

func encodeID(v id.ID, format string) (string, error) {
	switch strings.ToLower(format) {
	case "dec", "":
		return v.String(), nil
	case "hex":
		return v.Hex(), nil
	case "base32":
		return v.Base32(), nil
	case "base36":
		return v.Base36(), nil
	case "base58":
		return v.Base58(), nil
	default:
		return "", fmt.Errorf("invalid --format %q; use %s", format, strings.Join(formats, "|"))
	}
}

func parseID(s, format string) (id.ID, error) {
	switch strings.ToLower(format) {
	case "dec", "":
		return id.Parse(s)
	case "hex":
		return id.ParseHex(s)
	case "base32":
		return id.ParseBase32(s)
	case "base36":
		return id.ParseBase36(s)
	case "base58":
		return id.ParseBase58(s)
	default:
		return 0, fmt.Errorf("invalid --format %q; use %s", format, strings.Join(formats, "|"))
	}
}
