package registry

import (
	"context"
	"io"
	"os"

	"github.com/niksi-aalto/niksi/src/build"
)

// Skopeo wraps `skopeo copy`.
type Skopeo struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

// NewSkopeo creates a Skopeo runner with default output writers.
// NIKSI_SKOPEO overrides the skopeo binary.
func NewSkopeo() *Skopeo {
	bin := os.Getenv("NIKSI_SKOPEO")
	if bin == "" {
		bin = "skopeo"
	}
	return &Skopeo{
		Binary: bin,
		Stdout: os.Stderr,
		Stderr: os.Stderr,
	}
}

// Push copies a docker-archive to ref in a remote registry.
func (s *Skopeo) Push(ctx context.Context, archive, ref string, creds Credentials) error {
	return build.RunTool(ctx, "", s.Stdout, s.Stderr, s.Binary, s.CopyArgs(archive, ref, creds)...)
}

// CopyArgs returns the skopeo arguments Push uses.
func (s *Skopeo) CopyArgs(archive, ref string, creds Credentials) []string {
	args := []string{
		"copy",
		"docker-archive:" + archive,
		"docker://" + ref,
	}
	if !creds.IsZero() {
		args = append(args, "--dest-creds="+creds.Arg())
	}
	return args
}
