package build

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Revision identifies the git commit a project was built from.
type Revision struct {
	SHA    string // short commit hash
	Branch string // empty on a detached HEAD
}

// DetectRevision reads HEAD of the git repository containing dir.
func DetectRevision(dir string) (*Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	rev := &Revision{SHA: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	return rev, nil
}
