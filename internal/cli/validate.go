package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/fieldbench/internal/config"
	"github.com/wesleyorama2/fieldbench/internal/subjects"
)

func newValidateCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if _, err := subjects.Build(cfg.Groups...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", configFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file (YAML or JSON)")
	cmd.MarkFlagRequired("config")

	return cmd
}
