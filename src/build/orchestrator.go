package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultTemplate is the flake template used when a project names none.
const DefaultTemplate = "github:niksi-aalto/templates#plain"

// templateRepo is the flake holding the named niksi templates.
const templateRepo = "github:niksi-aalto/templates"

// FlakeTool runs the two nix operations a build is made of. Both run with
// dir as the working directory.
type FlakeTool interface {
	InitTemplate(ctx context.Context, dir, ref string) error
	Build(ctx context.Context, dir string) (string, error)
}

// Artifact is the result of a successful build.
type Artifact struct {
	Path     string // store path of the image archive
	LockFile string // lock file refreshed by the build
}

// Orchestrator runs builds one at a time.
type Orchestrator struct {
	Flake FlakeTool

	// TempDir is the parent of build workspaces. Empty means os.TempDir.
	TempDir string
}

// NewOrchestrator returns an Orchestrator using the given flake tool.
func NewOrchestrator(flake FlakeTool) *Orchestrator {
	return &Orchestrator{Flake: flake}
}

// TemplateRef resolves a project's template setting to a flake reference.
// An empty template selects DefaultTemplate, a bare name selects a template
// from the niksi template repository, and anything that already looks like
// a flake reference is used as is.
func TemplateRef(template string) string {
	template = strings.TrimSpace(template)
	switch {
	case template == "":
		return DefaultTemplate
	case strings.ContainsAny(template, ":#"):
		return template
	default:
		return templateRepo + "#" + template
	}
}

// Build produces the image described by bc.
//
// The output directory is checked for writability first, so an unusable
// directory fails before nix runs. Every step then waits for the previous
// one: template init, overrides.nix, lock seeding, nix build, lock
// persistence. The workspace is removed before Build returns, whatever the
// outcome. The persisted lock file is only replaced after the build itself
// succeeded.
func (o *Orchestrator) Build(ctx context.Context, bc Context) (Artifact, error) {
	log := zerolog.Ctx(ctx)
	project := bc.Project()

	if err := checkWritable(bc.OutputDir()); err != nil {
		return Artifact{}, fmt.Errorf("%w: output directory: %w", ErrWrite, err)
	}

	ws, err := newWorkspace(o.TempDir)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if err := ws.remove(); err != nil {
			log.Warn().Err(err).Str("workspace", ws.dir).Msg("removing workspace failed")
		}
	}()
	log.Debug().Str("workspace", ws.dir).Msg("workspace created")

	ref := TemplateRef(project.Template)
	log.Info().Str("template", ref).Msg("initializing flake")
	if err := o.Flake.InitTemplate(ctx, ws.dir, ref); err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrTemplateInit, err)
	}

	if err := os.WriteFile(ws.path(OverridesFileName), []byte(RenderOverrides(project)), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	seeded, err := seedLockFile(bc.LockFile(), ws.path(flakeLockName))
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: seeding lock file: %w", ErrWrite, err)
	}
	if seeded {
		log.Info().Str("lock", bc.LockFile()).Msg("seeded lock file")
	} else {
		log.Info().Str("lock", bc.LockFile()).Msg("no lock file, resolving fresh inputs")
	}

	log.Info().Str("name", project.Name).Str("version", project.Version).Msg("building image")
	out, err := o.Flake.Build(ctx, ws.dir)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	path, err := parseOutPath(out)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	lock := bc.PersistedLockFile()
	if err := replaceFile(ws.path(flakeLockName), lock); err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrLockPersist, err)
	}
	log.Debug().Str("lock", lock).Msg("lock file persisted")

	return Artifact{Path: path, LockFile: lock}, nil
}

// seedLockFile copies an existing lock file into the workspace. A missing
// file is not an error; the build then resolves fresh inputs.
func seedLockFile(src, dst string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, fmt.Errorf("%s is not a regular file", src)
	}
	if err := copyFile(src, dst); err != nil {
		return false, err
	}
	return true, nil
}

// parseOutPath extracts the store path from `nix build --print-out-paths`
// output. Multiple outputs print one path per line; the first is the image.
func parseOutPath(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !filepath.IsAbs(line) {
			return "", fmt.Errorf("unexpected build output %q", line)
		}
		return line, nil
	}
	return "", errors.New("build printed no output path")
}
