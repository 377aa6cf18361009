package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niksi-aalto/niksi/src/build"
	"github.com/niksi-aalto/niksi/src/config"
)

var overridesConfig string

var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Print the overrides.nix generated for a project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Load(overridesConfig)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), build.RenderOverrides(*p))
		return nil
	},
}

func init() {
	overridesCmd.Flags().StringVarP(&overridesConfig, "config", "c", config.DefaultFile, "project config file")

	rootCmd.AddCommand(overridesCmd)
}
