package registry

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/niksi-aalto/niksi/src/build"
)

// ValidateRegistry checks the registry setting of a project: a host with an
// optional namespace path, e.g. "docker.io/org". The transport is implied, so
// a URL scheme is rejected.
func ValidateRegistry(registry string) error {
	if strings.TrimSpace(registry) == "" {
		return ErrNoRegistry
	}
	if containsControlChars(registry) {
		return fmt.Errorf("registry %q contains control characters", registry)
	}
	if strings.ContainsAny(registry, " \t\n\r") {
		return fmt.Errorf("registry %q contains whitespace", registry)
	}
	if idx := strings.Index(registry, "://"); idx >= 0 {
		return fmt.Errorf("registry %q must not include a scheme (drop %q)", registry, registry[:idx+3])
	}

	host := registry
	if idx := strings.IndexByte(host, '/'); idx >= 0 {
		host = host[:idx]
	}
	if host == "" {
		return fmt.Errorf("registry %q has empty host", registry)
	}
	if strings.ContainsAny(host, "{}[]<>\"'`") {
		return fmt.Errorf("registry %q has invalid host characters", registry)
	}
	return nil
}

// ValidateTagTemplate checks an extra-tag template before it is resolved.
// Literal text may not contain whitespace or control characters, and every
// {name} block must be one of build.TagPlaceholders.
func ValidateTagTemplate(tmpl string) error {
	if tmpl == "" {
		return fmt.Errorf("tag template is empty")
	}
	if containsControlChars(tmpl) || strings.ContainsAny(tmpl, " \t\n\r") {
		return fmt.Errorf("tag template %q contains whitespace or control characters", tmpl)
	}

	rest := tmpl
	for rest != "" {
		open := strings.IndexAny(rest, "{}")
		if open < 0 {
			break
		}
		if rest[open] == '}' {
			return fmt.Errorf("tag template %q has an unmatched '}'", tmpl)
		}
		rest = rest[open+1:]
		end := strings.IndexAny(rest, "{}")
		if end < 0 || rest[end] == '{' {
			return fmt.Errorf("tag template %q has an unclosed '{'", tmpl)
		}
		if name := rest[:end]; !slices.Contains(build.TagPlaceholders, name) {
			return fmt.Errorf("tag template %q uses unknown placeholder {%s} (known: %s)",
				tmpl, name, strings.Join(build.TagPlaceholders, ", "))
		}
		rest = rest[end+1:]
	}
	return nil
}

func containsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
