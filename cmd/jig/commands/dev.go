package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jig/internal/core/domain"
)

func (c *CLI) newDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev [--browser]",
		Short: "Build continuously and serve or execute the result",
		Long: `Build the project and keep rebuilding on source changes.

In terminal mode (the default) every build bundles the scripts into a
single file and executes it with the configured runtime. With --browser
the sources are transpiled file by file, referenced from the HTML entry
document and served over HTTP with live reload.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Dev(cmd.Context(), devMode(cmd, args))
		},
	}
	cmd.Flags().Bool("browser", false, "Serve the build over HTTP instead of executing it")
	return cmd
}

// devMode resolves the pipeline mode from the flag, falling back to
// positional-argument parsing so `jig dev browser` keeps working.
func devMode(cmd *cobra.Command, args []string) domain.Mode {
	if browser, _ := cmd.Flags().GetBool("browser"); browser {
		return domain.ModeBrowser
	}
	return domain.ParseMode(args)
}
