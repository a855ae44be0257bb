// Command jlc compiles JL source files to stack-VM assembly.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aprice/jlc/cmd/jlc/cmd"
	"github.com/aprice/jlc/internal/diag"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var fe *diag.FatalError
		if errors.As(err, &fe) {
			os.Exit(int(fe.ExitCode))
		}
		os.Exit(int(diag.ExitFile))
	}
}
