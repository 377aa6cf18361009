package build

import (
	"fmt"
	"strings"

	"github.com/niksi-aalto/niksi/src/config"
)

// RenderOverrides renders overrides.nix for a project.
//
// Packages are emitted verbatim as nixpkgs attribute names; whether they
// exist is for nix to decide. Name and version become Nix string literals.
func RenderOverrides(p config.Project) string {
	var b strings.Builder
	b.WriteString("{pkgs, ...}: {\n")
	fmt.Fprintf(&b, "  paths = with pkgs; [%s];\n", strings.Join(p.Packages, " "))
	fmt.Fprintf(&b, "  name = %s;\n", nixString(p.Name))
	fmt.Fprintf(&b, "  tag = %s;\n", nixString(p.Version))
	b.WriteString("}\n")
	return b.String()
}

var nixEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `${`, `\${`)

func nixString(s string) string {
	return `"` + nixEscaper.Replace(s) + `"`
}
