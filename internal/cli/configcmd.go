package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/internal/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return fmt.Errorf("get config dir: %w", err)
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long:  "Print the configuration after applying the config file, .env and LABYRINTH_* environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.cfg().Encode(cmd.OutOrStdout())
		},
	})

	return cmd
}
