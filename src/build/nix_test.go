package build

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNix behaves like the two nix commands a build runs. Each invocation
// appends its arguments, one per line, to $NIKSI_FAKE_LOG followed by "--".
const fakeNix = `
for a in "$@"; do echo "$a" >> "$NIKSI_FAKE_LOG"; done
echo "--" >> "$NIKSI_FAKE_LOG"
case "$*" in
  *"flake init"*)
    echo '{ outputs = _: {}; }' > flake.nix
    ;;
  *"build --print-out-paths"*)
    test -f overrides.nix || { echo "overrides.nix missing" >&2; exit 1; }
    test -f flake.lock || echo '{"nodes": {}}' > flake.lock
    echo "/nix/store/fake-image.tar.gz"
    ;;
  *)
    echo "unexpected: $*" >&2
    exit 2
    ;;
esac
`

func newFakeNix(t *testing.T) (*Nix, string) {
	t.Helper()

	log := filepath.Join(t.TempDir(), "nix.log")
	t.Setenv("NIKSI_FAKE_LOG", log)
	return &Nix{Binary: writeScript(t, "nix", fakeNix), Stderr: io.Discard}, log
}

func invocations(t *testing.T, log string) [][]string {
	t.Helper()

	data, err := os.ReadFile(log)
	require.NoError(t, err)

	var calls [][]string
	var cur []string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if line == "--" {
			calls = append(calls, cur)
			cur = nil
			continue
		}
		cur = append(cur, line)
	}
	return calls
}

func TestNixArgs(t *testing.T) {
	nix, log := newFakeNix(t)
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, nix.InitTemplate(ctx, dir, DefaultTemplate))
	require.NoError(t, os.WriteFile(filepath.Join(dir, OverridesFileName), nil, 0o644))
	out, err := nix.Build(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "/nix/store/fake-image.tar.gz\n", out)

	assert.Equal(t, [][]string{
		{"--extra-experimental-features", "nix-command flakes", "flake", "init", "-t", DefaultTemplate},
		{"--extra-experimental-features", "nix-command flakes", "build", "--print-out-paths", "."},
	}, invocations(t, log))
}

func TestNewNixHonorsEnv(t *testing.T) {
	t.Setenv("NIKSI_NIX", "/opt/nix/bin/nix")
	assert.Equal(t, "/opt/nix/bin/nix", NewNix().Binary)

	t.Setenv("NIKSI_NIX", "")
	assert.Equal(t, "nix", NewNix().Binary)
}

func TestOrchestratorWithNix(t *testing.T) {
	nix, _ := newFakeNix(t)
	fx := newFixture(t)
	orch := fx.orchestrator(nix)

	artifact, err := orch.Build(context.Background(), fx.bc)
	require.NoError(t, err)
	assert.Equal(t, "/nix/store/fake-image.tar.gz", artifact.Path)

	lock, err := os.ReadFile(fx.bc.PersistedLockFile())
	require.NoError(t, err)
	assert.Equal(t, "{\"nodes\": {}}\n", string(lock))
	assertNoWorkspace(t, fx.tmp)
}

func TestOrchestratorWithFailingNix(t *testing.T) {
	fx := newFixture(t)
	nix := &Nix{Binary: writeScript(t, "nix", "echo 'error: flake not found' >&2\nexit 1\n"), Stderr: io.Discard}

	_, err := fx.orchestrator(nix).Build(context.Background(), fx.bc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateInit))
	assert.True(t, errors.Is(err, ErrToolFailed))
	assert.Contains(t, err.Error(), "flake not found")
	assertNoWorkspace(t, fx.tmp)
}

func TestOrchestratorWithoutNix(t *testing.T) {
	fx := newFixture(t)
	nix := &Nix{Binary: filepath.Join(t.TempDir(), "nix"), Stderr: io.Discard}

	_, err := fx.orchestrator(nix).Build(context.Background(), fx.bc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateInit))
	assert.True(t, errors.Is(err, ErrToolNotFound))
	assertNoWorkspace(t, fx.tmp)
}
