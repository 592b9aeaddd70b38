package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [--browser]",
		Short: "Build once and exit",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Build(cmd.Context(), devMode(cmd, args))
		},
	}
	cmd.Flags().Bool("browser", false, "Produce the browser build tree instead of the terminal bundle")
	return cmd
}
