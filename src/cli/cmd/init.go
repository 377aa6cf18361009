package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niksi-aalto/niksi/src/config"
)

var initConfig string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample niksi.json",
	Long: `Write the bundled sample project configuration.

An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteSample(initConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote sample configuration to %s\n", initConfig)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVarP(&initConfig, "config", "c", config.DefaultFile, "path of the config file to create")

	rootCmd.AddCommand(initCmd)
}
