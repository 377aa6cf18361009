// Package registry publishes built images to container registries.
//
// Images are pushed with skopeo, straight from the docker-archive the Nix
// build left in the store. Every reference is validated before the tool is
// invoked. Credentials travel on skopeo's command line, so they are visible
// to other local users for the duration of the push.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/niksi-aalto/niksi/src/build"
)

// Pusher copies a local image archive to a remote reference.
type Pusher interface {
	Push(ctx context.Context, archive, ref string, creds Credentials) error
}

// Target names where an image is published.
type Target struct {
	Registry string   // host and namespace, e.g. "docker.io/org"
	Name     string   // repository name
	Version  string   // primary tag
	Tags     []string // additional tags
}

// Reference returns "registry/name:version", or "name:version" without a
// registry.
func (t Target) Reference() string {
	return joinRef(t.Registry, t.Name, t.Version)
}

// References returns the primary reference followed by one per extra tag,
// each validated as an image tag reference.
func (t Target) References() ([]string, error) {
	if err := ValidateRegistry(t.Registry); err != nil {
		return nil, err
	}

	refs := []string{t.Reference()}
	seen := map[string]bool{t.Version: true}
	for _, tag := range t.Tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		refs = append(refs, joinRef(t.Registry, t.Name, tag))
	}

	for _, ref := range refs {
		if _, err := name.NewTag(ref); err != nil {
			return nil, fmt.Errorf("invalid image reference %q: %w", ref, err)
		}
	}
	return refs, nil
}

// Publish pushes artifact to every reference of target, primary tag first.
// The first failure stops the push and is returned as a *PushError carrying
// the tool's diagnostic.
func Publish(ctx context.Context, p Pusher, artifact build.Artifact, target Target, creds Credentials) error {
	if artifact.Path == "" {
		return &PushError{Ref: target.Reference(), Err: errors.New("no artifact to push")}
	}

	refs, err := target.References()
	if err != nil {
		return &PushError{Ref: target.Reference(), Err: err}
	}

	for _, ref := range refs {
		if err := p.Push(ctx, artifact.Path, ref, creds); err != nil {
			return &PushError{Ref: ref, Err: err}
		}
	}
	return nil
}

func joinRef(registry, repo, tag string) string {
	registry = strings.TrimSuffix(strings.TrimSpace(registry), "/")
	if registry == "" {
		return repo + ":" + tag
	}
	return registry + "/" + repo + ":" + tag
}
