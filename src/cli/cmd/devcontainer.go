package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/niksi-aalto/niksi/src/config"
	"github.com/niksi-aalto/niksi/src/devcontainer"
)

var (
	dcConfig    string
	dcOutputDir string
	dcStdout    bool
)

var devcontainerCmd = &cobra.Command{
	Use:   "devcontainer",
	Short: "Write .devcontainer.json without building",
	Long: `Generate the Dev Container manifest for a project.

The manifest references the image a build of the same configuration
publishes. Nothing is built or pushed.`,
	Args: cobra.NoArgs,
	RunE: runDevcontainer,
}

func init() {
	devcontainerCmd.Flags().StringVarP(&dcConfig, "config", "c", config.DefaultFile, "project config file")
	devcontainerCmd.Flags().StringVarP(&dcOutputDir, "output-directory", "o", ".", "directory to write .devcontainer.json to")
	devcontainerCmd.Flags().BoolVar(&dcStdout, "stdout", false, "print the manifest instead of writing it")

	rootCmd.AddCommand(devcontainerCmd)
}

func runDevcontainer(cmd *cobra.Command, args []string) error {
	p, err := config.Load(dcConfig)
	if err != nil {
		return err
	}
	m := devcontainer.FromConfig(p.Clone())

	if dcStdout {
		data, err := m.JSON()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.MkdirAll(dcOutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path, err := devcontainer.Write(dcOutputDir, m)
	if err != nil {
		return err
	}
	zerolog.Ctx(cmd.Context()).Info().Str("path", path).Str("image", m.Image).Msg("wrote manifest")
	return nil
}
