package build

import (
	"fmt"
	"path/filepath"

	"github.com/niksi-aalto/niksi/src/config"
)

const (
	// LockFileName is the name of the persisted lock file in the output directory.
	LockFileName = "niksi.lock"

	// flakeLockName is the lock file name nix reads and writes in a flake.
	flakeLockName = "flake.lock"

	// OverridesFileName is the file templates import the generated overrides from.
	OverridesFileName = "overrides.nix"
)

// Context holds the validated inputs of one build. It is passed by value and
// never modified after Builder.Finish returns it.
type Context struct {
	project   config.Project
	outputDir string
	lockFile  string
}

// Project returns a copy of the project configuration.
func (c Context) Project() config.Project { return c.project.Clone() }

// OutputDir returns the absolute output directory.
func (c Context) OutputDir() string { return c.outputDir }

// LockFile returns the absolute path of the lock file used to seed the build.
// The file does not need to exist.
func (c Context) LockFile() string { return c.lockFile }

// PersistedLockFile returns where a successful build writes its lock file.
func (c Context) PersistedLockFile() string {
	return filepath.Join(c.outputDir, LockFileName)
}

// Builder accumulates optional build inputs. The zero value is ready to use.
type Builder struct {
	configPath string
	outputDir  string
	lockFile   string
	template   string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithConfigPath sets the project config file. Required.
func (b *Builder) WithConfigPath(path string) *Builder {
	b.configPath = path
	return b
}

// WithOutputDirectory sets where the lock file and manifest are written.
// Defaults to the current directory.
func (b *Builder) WithOutputDirectory(dir string) *Builder {
	b.outputDir = dir
	return b
}

// WithLockFile sets the lock file that seeds the build. Defaults to
// niksi.lock in the output directory, so consecutive builds reuse it.
func (b *Builder) WithLockFile(path string) *Builder {
	b.lockFile = path
	return b
}

// WithTemplate overrides the template named in the config file.
func (b *Builder) WithTemplate(template string) *Builder {
	b.template = template
	return b
}

// Finish loads the config file and returns the build context.
//
// A missing config path fails with an *IncompleteError before any file is
// touched. Config errors (config.ErrNotFound, config.ErrParse) are returned
// unwrapped. Finish reads the config file and nothing else.
func (b *Builder) Finish() (Context, error) {
	if b.configPath == "" {
		return Context{}, &IncompleteError{Field: "config_file"}
	}

	project, err := config.Load(b.configPath)
	if err != nil {
		return Context{}, err
	}
	if b.template != "" {
		project.Template = b.template
	}

	outputDir := b.outputDir
	if outputDir == "" {
		outputDir = "."
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return Context{}, fmt.Errorf("resolving output directory: %w", err)
	}

	lockFile := b.lockFile
	if lockFile == "" {
		lockFile = filepath.Join(outputDir, LockFileName)
	}
	lockFile, err = filepath.Abs(lockFile)
	if err != nil {
		return Context{}, fmt.Errorf("resolving lock file: %w", err)
	}

	return Context{
		project:   project.Clone(),
		outputDir: outputDir,
		lockFile:  lockFile,
	}, nil
}
