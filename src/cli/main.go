package main

import (
	"os"

	"github.com/niksi-aalto/niksi/src/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
