package registry

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

	"github.com/niksi-aalto/niksi/src/build"
)

func fakeSkopeo(t *testing.T, body string) (*Skopeo, string) {
	t.Helper()

	dir := t.TempDir()
	log := filepath.Join(dir, "skopeo.log")
	bin := filepath.Join(dir, "skopeo")
	script := "#!/bin/sh\nfor a in \"$@\"; do echo \"$a\" >> \"" + log + "\"; done\n" + body
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return &Skopeo{Binary: bin, Stdout: io.Discard, Stderr: io.Discard}, log
}

func readArgs(t *testing.T, log string) []string {
	t.Helper()

	data, err := os.ReadFile(log)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestSkopeoPush(t *testing.T) {
	s, log := fakeSkopeo(t, "exit 0\n")
	creds := Credentials{Username: "bot", Password: "pa:ss"}

	require.NoError(t, s.Push(context.Background(), "/store/abc", "docker.io/org/cs101:1.0", creds))

	assert.Equal(t, []string{
		"copy",
		"docker-archive:/store/abc",
		"docker://docker.io/org/cs101:1.0",
		"--dest-creds=bot:pa:ss",
	}, readArgs(t, log))
}

func TestSkopeoPushWithoutCredentials(t *testing.T) {
	s, log := fakeSkopeo(t, "exit 0\n")

	require.NoError(t, s.Push(context.Background(), "/store/abc", "docker.io/org/cs101:1.0", Credentials{}))
	assert.Equal(t, []string{"copy", "docker-archive:/store/abc", "docker://docker.io/org/cs101:1.0"}, readArgs(t, log))
}

func TestPublishWithFailingSkopeo(t *testing.T) {
	s, _ := fakeSkopeo(t, "echo 'requested access to the resource is denied' >&2\nexit 1\n")
	target := Target{Registry: "docker.io/org", Name: "cs101", Version: "1.0"}
	creds := Credentials{Username: "bot", Password: "hunter2"}

	err := Publish(context.Background(), s, build.Artifact{Path: "/store/abc"}, target, creds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPush))
	assert.True(t, errors.Is(err, build.ErrToolFailed))
	assert.Contains(t, err.Error(), "docker.io/org/cs101:1.0")
	assert.Contains(t, err.Error(), "access to the resource is denied")
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestPublishWithoutSkopeo(t *testing.T) {
	s := &Skopeo{Binary: filepath.Join(t.TempDir(), "skopeo")}
	target := Target{Registry: "docker.io/org", Name: "cs101", Version: "1.0"}

	err := Publish(context.Background(), s, build.Artifact{Path: "/store/abc"}, target, Credentials{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPush))
	assert.True(t, errors.Is(err, build.ErrToolNotFound))
}
