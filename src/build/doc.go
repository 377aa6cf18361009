// Package build turns a niksi project into a Nix-built container image.
//
// A [Builder] assembles a validated [Context] from the config file path,
// output directory and lock file. An [Orchestrator] then runs one build in a
// throwaway workspace: it initializes a flake from the project's template,
// writes overrides.nix from [RenderOverrides], seeds flake.lock from the
// previous run, runs the build and copies the refreshed lock file back to
// the output directory as niksi.lock.
//
// Example usage:
//
//	bc, err := build.NewBuilder().
//	    WithConfigPath("niksi.json").
//	    WithOutputDirectory("out").
//	    Finish()
//	if err != nil {
//	    return err
//	}
//
//	artifact, err := build.NewOrchestrator(build.NewNix()).Build(ctx, bc)
//	if err != nil {
//	    return err
//	}
//
// Concurrent builds sharing an output directory race on niksi.lock. Nothing
// here serializes them.
package build
