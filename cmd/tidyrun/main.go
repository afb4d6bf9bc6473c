// Command tidyrun runs clang-tidy in parallel over the files of a change.
package main

import (
	"fmt"
	"os"

	"github.com/wharflab/tidyrun/cmd/tidyrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
