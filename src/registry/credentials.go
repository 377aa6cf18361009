package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// credentialEnvPrefix selects NIKSI_REGISTRY_USER / NIKSI_REGISTRY_PASS.
const credentialEnvPrefix = "NIKSI_REGISTRY"

// Credentials authenticate against the destination registry. The zero value
// means none are passed and skopeo falls back to its own auth files.
type Credentials struct {
	Username string
	Password string
}

// IsZero reports whether no credentials are set.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

// Arg returns the "user:password" form skopeo expects.
func (c Credentials) Arg() string {
	return c.Username + ":" + c.Password
}

// String returns the credentials with the password redacted.
func (c Credentials) String() string {
	if c.IsZero() {
		return "(none)"
	}
	return c.Username + ":REDACTED"
}

// ParseCredentials parses "user:password". The password may contain colons.
func ParseCredentials(s string) (Credentials, error) {
	s = strings.TrimSpace(s)
	user, pass, ok := strings.Cut(s, ":")
	if !ok || user == "" {
		return Credentials{}, fmt.Errorf("%w: expected user:password", ErrCredentials)
	}
	return Credentials{Username: user, Password: pass}, nil
}

// DefaultCredentialsPath is where credentials are read from when nothing
// else is configured: $XDG_CONFIG_HOME/niksi/credentials.
func DefaultCredentialsPath() string {
	return filepath.Join(xdg.ConfigHome, "niksi", "credentials")
}

// LoadCredentials resolves push credentials.
//
// An explicit path must exist and hold "user:password". Without a path,
// NIKSI_REGISTRY_USER/NIKSI_REGISTRY_PASS are used when set, then the file at
// DefaultCredentialsPath if it exists. Otherwise the zero Credentials are
// returned.
func LoadCredentials(path string) (Credentials, error) {
	if path != "" {
		return readCredentials(path)
	}

	if user, pass := resolveCredentials(credentialEnvPrefix); user != "" {
		return Credentials{Username: user, Password: pass}, nil
	}

	creds, err := readCredentials(DefaultCredentialsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, nil
	}
	return creds, err
}

func readCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("reading credentials: %w", err)
	}
	creds, err := ParseCredentials(string(data))
	if err != nil {
		return Credentials{}, fmt.Errorf("%s: %w", path, err)
	}
	return creds, nil
}

// resolveCredentials reads USER and PASS from env vars using the given
// prefix. Returns empty strings if no prefix or vars are unset.
func resolveCredentials(prefix string) (user, pass string) {
	if prefix == "" {
		return "", ""
	}
	p := strings.ToUpper(prefix)
	return os.Getenv(p + "_USER"), os.Getenv(p + "_PASS")
}
