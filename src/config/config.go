package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name used when none is given.
const DefaultFile = "niksi.json"

// Project is the niksi project configuration. It describes the Dev Container
// image to build and the editor integration to generate for it.
type Project struct {
	// Name of the produced image.
	Name string `json:"name" yaml:"name" toml:"name" validate:"required"`

	// CourseCode is appended to the display name when set.
	CourseCode string `json:"course_code,omitempty" yaml:"course_code,omitempty" toml:"course_code,omitempty"`

	// Version of the image. Free-form, used as the image tag.
	Version string `json:"version" yaml:"version" toml:"version" validate:"required"`

	Maintainers []string `json:"maintainers" yaml:"maintainers" toml:"maintainers"`

	// Packages are nixpkgs attribute names added to the image.
	Packages []string `json:"packages" yaml:"packages" toml:"packages"`

	// VSCodeExtensions are extension IDs (e.g. "scalameta.metals") installed
	// in the editor attached to the container.
	VSCodeExtensions []string `json:"vscode_extensions" yaml:"vscode_extensions" toml:"vscode_extensions"`

	// Template selects a niksi template by name, or a full flake reference.
	Template string `json:"template,omitempty" yaml:"template,omitempty" toml:"template,omitempty"`

	// Registry is the image registry host and namespace, e.g. "docker.io/org".
	Registry string `json:"registry,omitempty" yaml:"registry,omitempty" toml:"registry,omitempty"`

	// Tags are extra tag templates pushed alongside the version tag.
	// Supports {version}, {major}, {minor}, {patch}, {sha} and {branch}.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	c := p
	c.Maintainers = cloneStrings(p.Maintainers)
	c.Packages = cloneStrings(p.Packages)
	c.VSCodeExtensions = cloneStrings(p.VSCodeExtensions)
	c.Tags = cloneStrings(p.Tags)
	return c
}

var validate = validator.New()

// Load reads a project configuration file.
//
// The format is picked from the extension: ".toml" files are decoded as TOML,
// ".yaml" and ".yml" as YAML, everything else as JSON. A missing file yields
// a *NotFoundError; a file that does not decode into a valid Project yields a
// *ParseError.
func Load(path string) (*Project, error) {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	p, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p, nil
}

// Format is a config file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Parse decodes and validates a project configuration.
func Parse(data []byte, format Format) (*Project, error) {
	p := defaults()

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, p)
	case FormatYAML:
		err = yaml.Unmarshal(data, p)
	default:
		// Unmarshal rejects trailing data and mistyped values.
		err = json.Unmarshal(data, p)
	}
	if err != nil {
		return nil, err
	}
	p.fillDefaults()

	if err := validate.Struct(p); err != nil {
		return nil, schemaError(err)
	}
	return p, nil
}

func defaults() *Project {
	return &Project{
		Maintainers:      []string{},
		Packages:         []string{},
		VSCodeExtensions: []string{},
	}
}

// fillDefaults replaces lists set to null in the file with empty ones.
func (p *Project) fillDefaults() {
	if p.Maintainers == nil {
		p.Maintainers = []string{}
	}
	if p.Packages == nil {
		p.Packages = []string{}
	}
	if p.VSCodeExtensions == nil {
		p.VSCodeExtensions = []string{}
	}
}

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// schemaError turns validator output into "missing required field" messages
// keyed by the file's field names.
func schemaError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldKey(fe.StructField()))
	}
	return fmt.Errorf("missing required field(s): %s", strings.Join(fields, ", "))
}

func fieldKey(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "Version":
		return "version"
	default:
		return strings.ToLower(structField)
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
