package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the te4it data directory",
		Long: `Initialize the te4it data directory.

This command creates the data directory with:
- the store (te4it.db for sqlite, te4it.json for json)
- logs/: directory for log files

The data directory is $TE4IT_HOME, or $XDG_DATA_HOME/te4it,
or ~/.local/share/te4it. Running init again is harmless.

Next steps:
  te4it user register --email you@example.com --name "You"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
			})
			if err != nil {
				return err
			}

			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "te4it already initialized in %s\n", out.DataDir)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized te4it in %s\n", out.DataDir)
			return nil
		},
	}
}
