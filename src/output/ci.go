package output

import (
	"fmt"
	"io"
	"os"
	"time"
)

// CI environment detection.

func IsCI() bool {
	return os.Getenv("CI") == "true"
}

func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") == "true"
}

func IsGitHubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// Collapsible log groups. GitLab sections and GitHub Actions groups are
// emitted when running under the matching runner; elsewhere these are no-ops.

func GroupStart(w io.Writer, id, name string) {
	groupStart(w, id, name, false)
}

// GroupStartCollapsed starts a group that is collapsed by default.
func GroupStartCollapsed(w io.Writer, id, name string) {
	groupStart(w, id, name, true)
}

func GroupEnd(w io.Writer, id string) {
	switch {
	case IsGitLabCI():
		fmt.Fprintf(w, "\033[0Ksection_end:%d:%s\r\033[0K\n", time.Now().Unix(), id)
	case IsGitHubActions():
		fmt.Fprintln(w, "::endgroup::")
	}
}

func groupStart(w io.Writer, id, name string, collapsed bool) {
	switch {
	case IsGitLabCI():
		opts := ""
		if collapsed {
			opts = "[collapsed=true]"
		}
		fmt.Fprintf(w, "\033[0Ksection_start:%d:%s%s\r\033[0K%s\n", time.Now().Unix(), id, opts, name)
	case IsGitHubActions():
		fmt.Fprintf(w, "::group::%s\n", name)
	}
}
