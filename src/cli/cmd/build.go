package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/niksi-aalto/niksi/src/build"
	"github.com/niksi-aalto/niksi/src/config"
	"github.com/niksi-aalto/niksi/src/devcontainer"
	"github.com/niksi-aalto/niksi/src/output"
	"github.com/niksi-aalto/niksi/src/registry"
)

var (
	buildConfig      string
	buildOutputDir   string
	buildLockFile    string
	buildCredentials string
	buildTemplate    string
	buildPush        bool
	buildDryRun      bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the project image and write .devcontainer.json",
	Long: `Build the container image described by the project config with Nix.

The lock file from the previous build is reused so the same config yields
the same image. After a successful build the refreshed lock file is written
to the output directory as niksi.lock, next to .devcontainer.json.

When the config file does not exist a sample is written in its place.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildConfig, "config", "c", config.DefaultFile, "project config file")
	buildCmd.Flags().StringVarP(&buildOutputDir, "output-directory", "o", ".", "directory for niksi.lock and .devcontainer.json")
	buildCmd.Flags().StringVarP(&buildLockFile, "lock-file", "l", "", "lock file to seed the build with (default: <output-directory>/niksi.lock)")
	buildCmd.Flags().StringVar(&buildCredentials, "credentials", "", "file holding registry credentials as user:password")
	buildCmd.Flags().StringVar(&buildTemplate, "template", "", "override the template named in the config")
	buildCmd.Flags().BoolVar(&buildPush, "push", false, "publish the image to the configured registry")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "show the plan without executing")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	color := output.UseColor()
	start := time.Now()

	bc, err := build.NewBuilder().
		WithConfigPath(buildConfig).
		WithOutputDirectory(buildOutputDir).
		WithLockFile(buildLockFile).
		WithTemplate(buildTemplate).
		Finish()
	if errors.Is(err, config.ErrNotFound) {
		if err := config.WriteSample(buildConfig); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s not found; wrote a sample configuration.\nEdit it and run niksi build again.\n", buildConfig)
		return nil
	}
	if err != nil {
		return err
	}
	project := bc.Project()

	output.Header(w, color)
	output.ContextBlock(w, []output.KV{
		{Key: "project", Value: devcontainer.DisplayName(project)},
		{Key: "version", Value: project.Version},
		{Key: "template", Value: build.TemplateRef(project.Template)},
		{Key: "output", Value: bc.OutputDir()},
	})

	if buildDryRun {
		return printPlan(w, bc, color)
	}

	if err := os.MkdirAll(bc.OutputDir(), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// --- Manifest ---
	manifest := devcontainer.FromConfig(project)
	manifestPath, err := devcontainer.Write(bc.OutputDir(), manifest)
	if err != nil {
		return err
	}

	// --- Build ---
	output.GroupStartCollapsed(w, "niksi_build", "Build")
	buildStart := time.Now()
	nix := build.NewNix()
	nix.Stderr = cmd.ErrOrStderr()
	artifact, err := build.NewOrchestrator(nix).Build(ctx, bc)
	buildElapsed := time.Since(buildStart)
	output.GroupEnd(w, "niksi_build")
	if err != nil {
		return err
	}

	sec := output.NewSection(w, "Build", buildElapsed, color)
	sec.Field("image", artifact.Path)
	sec.Field("lock", artifact.LockFile)
	sec.Field("manifest", manifestPath)
	sec.Close()

	// --- Publish ---
	pushStatus, pushDetail := output.StatusSkipped, "--push not set"
	if buildPush {
		pushStart := time.Now()
		refs, err := publish(ctx, cmd, project, artifact)
		if err != nil {
			return err
		}
		pushSec := output.NewSection(w, "Publish", time.Since(pushStart), color)
		for _, ref := range refs {
			pushSec.Row("%s %s", output.StatusIcon(output.StatusSuccess, color), ref)
		}
		pushSec.Close()
		pushStatus, pushDetail = output.StatusSuccess, fmt.Sprintf("%d reference(s)", len(refs))
	}

	// --- Summary ---
	sum := output.NewSection(w, "Summary", 0, color)
	output.SummaryRow(w, "manifest", output.StatusSuccess, manifest.Image, color)
	output.SummaryRow(w, "build", output.StatusSuccess, formatDuration(buildElapsed), color)
	output.SummaryRow(w, "push", pushStatus, pushDetail, color)
	sum.Separator()
	output.SummaryTotal(w, time.Since(start), output.StatusSuccess, color)
	sum.Close()

	return nil
}

// publish pushes artifact to the project's registry under its version tag
// and any configured extra tags, returning the references pushed.
func publish(ctx context.Context, cmd *cobra.Command, project config.Project, artifact build.Artifact) ([]string, error) {
	log := zerolog.Ctx(ctx)

	creds, err := registry.LoadCredentials(buildCredentials)
	if err != nil {
		return nil, err
	}

	tags, err := resolveExtraTags(ctx, project)
	if err != nil {
		return nil, err
	}
	target := registry.Target{
		Registry: project.Registry,
		Name:     project.Name,
		Version:  project.Version,
		Tags:     tags,
	}
	refs, err := target.References()
	if err != nil {
		return nil, &registry.PushError{Ref: target.Reference(), Err: err}
	}

	log.Info().Strs("refs", refs).Stringer("credentials", creds).Msg("publishing image")

	skopeo := registry.NewSkopeo()
	skopeo.Stdout = cmd.ErrOrStderr()
	skopeo.Stderr = cmd.ErrOrStderr()
	if err := registry.Publish(ctx, skopeo, artifact, target, creds); err != nil {
		return nil, err
	}
	return refs, nil
}

// resolveExtraTags expands the project's tag templates. Revision-based
// templates are dropped when the config does not live in a git checkout.
func resolveExtraTags(ctx context.Context, project config.Project) ([]string, error) {
	if len(project.Tags) == 0 {
		return nil, nil
	}
	for _, tmpl := range project.Tags {
		if err := registry.ValidateTagTemplate(tmpl); err != nil {
			return nil, err
		}
	}
	rev, err := build.DetectRevision(filepath.Dir(buildConfig))
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("no git revision; {sha} and {branch} tags are skipped")
		rev = nil
	}
	return build.ResolveTags(project.Tags, project.Version, rev), nil
}

// printPlan shows what a build would do without running anything.
func printPlan(w io.Writer, bc build.Context, color bool) error {
	project := bc.Project()
	nix := build.NewNix()

	sec := output.NewSection(w, "Plan", 0, color)
	sec.Field("lock seed", bc.LockFile())
	sec.Field("lock out", bc.PersistedLockFile())
	sec.Field("manifest", filepath.Join(bc.OutputDir(), devcontainer.FileName))
	sec.Separator()
	sec.Row("%s", output.Dimmed(build.OverridesFileName, color))
	for _, line := range strings.Split(strings.TrimSuffix(build.RenderOverrides(project), "\n"), "\n") {
		sec.Row("  %s", line)
	}
	sec.Separator()
	sec.Row("%s", commandLine(nix.Binary, nix.InitArgs(build.TemplateRef(project.Template))))
	sec.Row("%s", commandLine(nix.Binary, nix.BuildArgs()))

	if buildPush {
		creds, err := registry.LoadCredentials(buildCredentials)
		if err != nil {
			sec.Close()
			return err
		}
		target := registry.Target{
			Registry: project.Registry,
			Name:     project.Name,
			Version:  project.Version,
			Tags:     build.ResolveTags(project.Tags, project.Version, nil),
		}
		refs, err := target.References()
		if err != nil {
			sec.Close()
			return &registry.PushError{Ref: target.Reference(), Err: err}
		}
		skopeo := registry.NewSkopeo()
		for _, ref := range refs {
			sec.Row("%s", commandLine(skopeo.Binary, skopeo.CopyArgs("<image>", ref, creds)))
		}
	}
	sec.Close()
	return nil
}

// commandLine renders a redacted, shell-quoted command for display.
func commandLine(bin string, args []string) string {
	parts := []string{filepath.Base(bin)}
	for _, a := range build.RedactArgs(args) {
		if strings.ContainsAny(a, " \t\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

func formatDuration(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}
