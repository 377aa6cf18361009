package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/niksi-aalto/niksi/src/output"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "niksi",
	Short: "Build Dev Container images with Nix",
	Long: `niksi builds a reproducible Dev Container image from a niksi.json project
file using Nix flakes, writes the matching .devcontainer.json and optionally
publishes the image with skopeo.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := output.NewLogger(cmd.ErrOrStderr(), verbose, output.UseColor())
		cmd.SetContext(logger.WithContext(cmd.Context()))
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output, including every external command")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
