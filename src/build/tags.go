package build

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ResolveTags expands tag templates against the project version and the
// revision of the project directory.
//
// Supported templates:
//
//	{version}  → "1.2.3"   (project version, verbatim)
//	{major}    → "1"
//	{minor}    → "2"
//	{patch}    → "3"
//	{sha}      → "abc1234" (short)
//	{branch}   → "main"
//	latest     → "latest"  (literal passthrough)
//
// A template is dropped when one of its placeholders cannot be resolved:
// {major}/{minor}/{patch} need a semver version, {sha}/{branch} need a git
// checkout. The result is sanitized and free of duplicates.
// TagPlaceholders are the names ResolveTags expands inside braces.
var TagPlaceholders = []string{"version", "major", "minor", "patch", "sha", "branch"}

func ResolveTags(templates []string, version string, rev *Revision) []string {
	var sv *semver.Version
	if v, err := semver.NewVersion(version); err == nil {
		sv = v
	}

	seen := make(map[string]bool, len(templates))
	tags := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		tag, ok := expandTag(tmpl, version, sv, rev)
		if !ok {
			continue
		}
		tag = sanitizeTag(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func expandTag(tmpl, version string, sv *semver.Version, rev *Revision) (string, bool) {
	tag := strings.ReplaceAll(tmpl, "{version}", version)

	if strings.Contains(tag, "{major}") || strings.Contains(tag, "{minor}") || strings.Contains(tag, "{patch}") {
		if sv == nil {
			return "", false
		}
		tag = strings.NewReplacer(
			"{major}", itoa(sv.Major()),
			"{minor}", itoa(sv.Minor()),
			"{patch}", itoa(sv.Patch()),
		).Replace(tag)
	}

	if strings.Contains(tag, "{sha}") {
		if rev == nil || rev.SHA == "" {
			return "", false
		}
		tag = strings.ReplaceAll(tag, "{sha}", rev.SHA)
	}
	if strings.Contains(tag, "{branch}") {
		if rev == nil || rev.Branch == "" {
			return "", false
		}
		tag = strings.ReplaceAll(tag, "{branch}", rev.Branch)
	}

	// Unknown placeholder.
	if strings.ContainsAny(tag, "{}") {
		return "", false
	}
	return tag, true
}

// sanitizeTag replaces characters not allowed in image tags.
func sanitizeTag(s string) string {
	r := strings.NewReplacer(
		"/", "-",
		" ", "-",
		"+", "-",
	)
	return strings.TrimSpace(r.Replace(s))
}

func itoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}
