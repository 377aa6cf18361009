package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		in      string
		want    Credentials
		wantErr bool
	}{
		{in: "bot:secret", want: Credentials{Username: "bot", Password: "secret"}},
		{in: "bot:sec:ret\n", want: Credentials{Username: "bot", Password: "sec:ret"}},
		{in: "bot:", want: Credentials{Username: "bot"}},
		{in: "bot", wantErr: true},
		{in: ":secret", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCredentials(tt.in)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrCredentials), "ParseCredentials(%q)", tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLoadCredentialsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds")
	require.NoError(t, os.WriteFile(path, []byte("bot:secret\n"), 0o600))
	t.Setenv("NIKSI_REGISTRY_USER", "env-user")

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "bot", Password: "secret"}, creds)
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("NIKSI_REGISTRY_USER", "env-user")
	t.Setenv("NIKSI_REGISTRY_PASS", "env-pass")

	creds, err := LoadCredentials("")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "env-user", Password: "env-pass"}, creds)
}

func TestCredentialsString(t *testing.T) {
	c := Credentials{Username: "bot", Password: "secret"}
	assert.Equal(t, "bot:REDACTED", c.String())
	assert.Equal(t, "bot:secret", c.Arg())
	assert.Equal(t, "(none)", Credentials{}.String())
}
