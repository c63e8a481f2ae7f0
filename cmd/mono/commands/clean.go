package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mono/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove compiled output and bundle artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dist, _ := cmd.Flags().GetBool("dist")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{
				Output: false,
				Dist:   false,
			}

			switch {
			case all:
				opts.Output = true
				opts.Dist = true
			case dist:
				opts.Dist = true
			default:
				// Default behavior: clean the compiled output tree
				opts.Output = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("dist", "d", false, "Remove the per-package dist directories")
	cmd.Flags().BoolP("all", "a", false, "Remove compiled output and dist directories")

	return cmd
}
