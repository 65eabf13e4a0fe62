// Command ministore runs the storefront core: catalog listing, an
// interactive shopping session, scenario runs, and journal inspection.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ministore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
