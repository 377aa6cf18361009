// Package devcontainer generates the Dev Container manifest that points an
// editor at the image niksi builds.
package devcontainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/niksi-aalto/niksi/src/config"
)

// FileName is the manifest file name, written to the output directory.
const FileName = ".devcontainer.json"

// DefaultRemoteUser is the user the editor attaches as inside the container.
const DefaultRemoteUser = "vscode"

// ErrSerialization is returned when a manifest cannot be encoded.
var ErrSerialization = errors.New("manifest serialization failed")

// Manifest is the subset of the Dev Container format niksi emits.
type Manifest struct {
	Name           string         `json:"name"`
	Image          string         `json:"image"`
	RemoteUser     string         `json:"remoteUser,omitempty"`
	Customizations Customizations `json:"customizations"`
}

// Customizations holds tool-specific settings.
type Customizations struct {
	VSCode VSCode `json:"vscode"`
}

// VSCode lists the extensions installed in the attached editor.
type VSCode struct {
	Extensions []string `json:"extensions"`
}

// FromConfig derives the manifest for p.
//
// The image is "registry/name:version", or "name:version" when no registry
// is set. The display name carries the course code in parentheses when one
// is configured.
func FromConfig(p config.Project) Manifest {
	exts := make([]string, len(p.VSCodeExtensions))
	copy(exts, p.VSCodeExtensions)

	return Manifest{
		Name:       DisplayName(p),
		Image:      ImageRef(p),
		RemoteUser: DefaultRemoteUser,
		Customizations: Customizations{
			VSCode: VSCode{Extensions: exts},
		},
	}
}

// ImageRef returns the reference the built image is published under.
func ImageRef(p config.Project) string {
	registry := strings.TrimSuffix(strings.TrimSpace(p.Registry), "/")
	if registry == "" {
		return p.Name + ":" + p.Version
	}
	return registry + "/" + p.Name + ":" + p.Version
}

// DisplayName returns the name shown by the editor.
func DisplayName(p config.Project) string {
	if p.CourseCode == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.CourseCode)
}

// JSON encodes the manifest as indented JSON with a trailing newline.
func (m Manifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return append(data, '\n'), nil
}

// Write encodes m and writes it to dir/.devcontainer.json, returning the
// path written.
func Write(dir string, m Manifest) (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", FileName, err)
	}
	return path, nil
}
