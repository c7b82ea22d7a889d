package main

import (
	"fmt"
	"os"

	"github.com/temirov/srcpack/internal/cli"
)

// main is the entry point for the srcpack command.
func main() {
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		fmt.Fprintln(os.Stderr, "Error: "+applicationExecutionError.Error())
		os.Exit(1)
	}
}
