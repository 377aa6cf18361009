package build

import (
	"bytes"
	"context"
	"io"
	"os"
)

// Nix wraps the nix commands a build needs.
type Nix struct {
	Binary string
	Stderr io.Writer
}

// NewNix creates a Nix runner that streams diagnostics to os.Stderr.
// NIKSI_NIX overrides the nix binary.
func NewNix() *Nix {
	bin := os.Getenv("NIKSI_NIX")
	if bin == "" {
		bin = "nix"
	}
	return &Nix{
		Binary: bin,
		Stderr: os.Stderr,
	}
}

// nixFlags enables flakes regardless of the host's nix.conf.
var nixFlags = []string{"--extra-experimental-features", "nix-command flakes"}

// InitTemplate runs `nix flake init -t ref` inside dir.
func (n *Nix) InitTemplate(ctx context.Context, dir, ref string) error {
	return RunTool(ctx, dir, n.Stderr, n.Stderr, n.Binary, n.InitArgs(ref)...)
}

// Build runs `nix build --print-out-paths .` inside dir and returns its raw
// standard output.
func (n *Nix) Build(ctx context.Context, dir string) (string, error) {
	var stdout bytes.Buffer
	if err := RunTool(ctx, dir, &stdout, n.Stderr, n.Binary, n.BuildArgs()...); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

// InitArgs returns the arguments InitTemplate passes to nix.
func (n *Nix) InitArgs(ref string) []string {
	return n.args("flake", "init", "-t", ref)
}

// BuildArgs returns the arguments Build passes to nix.
func (n *Nix) BuildArgs() []string {
	return n.args("build", "--print-out-paths", ".")
}

func (n *Nix) args(args ...string) []string {
	out := make([]string, 0, len(nixFlags)+len(args))
	out = append(out, nixFlags...)
	return append(out, args...)
}
