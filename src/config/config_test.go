package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "niksi.json", `{
  "name": "cs101",
  "course_code": "CS-E1000",
  "version": "1.0",
  "maintainers": ["a@example.com"],
  "packages": ["git", "python3"],
  "vscode_extensions": ["ms-python.python"],
  "template": "python",
  "registry": "docker.io/org"
}`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cs101", p.Name)
	assert.Equal(t, "CS-E1000", p.CourseCode)
	assert.Equal(t, "1.0", p.Version)
	assert.Equal(t, []string{"a@example.com"}, p.Maintainers)
	assert.Equal(t, []string{"git", "python3"}, p.Packages)
	assert.Equal(t, []string{"ms-python.python"}, p.VSCodeExtensions)
	assert.Equal(t, "python", p.Template)
	assert.Equal(t, "docker.io/org", p.Registry)
}

func TestLoadJSONEscapes(t *testing.T) {
	path := writeConfig(t, "niksi.json", `{"name": "cs101", "version": "1.0", "maintainers": ["a\/b", "\u00e4"]}`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "ä"}, p.Maintainers)
}

func TestLoadNullLists(t *testing.T) {
	path := writeConfig(t, "niksi.json", `{"name": "cs101", "version": "1.0", "packages": null}`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, p.Packages)
	assert.Empty(t, p.Packages)
}

func TestLoadDefaultsOptionalFields(t *testing.T) {
	path := writeConfig(t, "niksi.json", `{"name": "cs101", "version": "2.0", "course_code": null}`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Empty(t, p.CourseCode)
	assert.Empty(t, p.Template)
	assert.Empty(t, p.Registry)
	assert.NotNil(t, p.Packages)
	assert.Empty(t, p.Packages)
	assert.Empty(t, p.Maintainers)
	assert.Empty(t, p.VSCodeExtensions)
}

func TestLoadYAMLAndTOML(t *testing.T) {
	yamlPath := writeConfig(t, "niksi.yaml", "name: cs101\nversion: \"1.0\"\npackages: [git]\n")
	tomlPath := writeConfig(t, "niksi.toml", "name = \"cs101\"\nversion = \"1.0\"\npackages = [\"git\"]\n")

	for _, path := range []string{yamlPath, tomlPath} {
		p, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, "cs101", p.Name)
		assert.Equal(t, "1.0", p.Version)
		assert.Equal(t, []string{"git"}, p.Packages)
	}
}

func TestLoadNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrParse))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, path, nf.Path)
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "syntax", file: "niksi.json", content: `{"name": "cs101", "version": `},
		{name: "missing name", file: "niksi.json", content: `{"version": "1.0"}`},
		{name: "missing version", file: "niksi.json", content: `{"name": "cs101"}`},
		{name: "empty name", file: "niksi.json", content: `{"name": "", "version": "1.0"}`},
		{name: "wrong type", file: "niksi.json", content: `{"name": "cs101", "version": "1.0", "packages": "git"}`},
		{name: "empty file", file: "niksi.json", content: ``},
		{name: "number version", file: "niksi.json", content: `{"name": "cs101", "version": 2}`},
		{name: "bool course code", file: "niksi.json", content: `{"name": "cs101", "version": "1.0", "course_code": false}`},
		{name: "trailing data", file: "niksi.json", content: `{"name": "cs101", "version": "1.0"} }`},
		{name: "yaml in json file", file: "niksi.json", content: "name: cs101\nversion: \"1.0\"\n"},
		{name: "bad toml", file: "niksi.toml", content: "name = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestMissingFieldNamesFileKeys(t *testing.T) {
	_, err := Parse([]byte(`{}`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "version")
}

func TestClone(t *testing.T) {
	p := Project{Name: "a", Version: "1", Packages: []string{"git"}, Tags: []string{"latest"}}
	c := p.Clone()
	c.Packages[0] = "hg"
	c.Tags[0] = "edge"

	assert.Equal(t, "git", p.Packages[0])
	assert.Equal(t, "latest", p.Tags[0])
}

func TestSampleIsValid(t *testing.T) {
	p, err := Parse(Sample(), FormatJSON)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Name)
	assert.NotEmpty(t, p.Version)
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "niksi.json")

	require.NoError(t, WriteSample(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sample(), data)

	// Existing files are left alone.
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	require.Error(t, WriteSample(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
