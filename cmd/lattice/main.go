// Package main provides the lattice CLI: evaluate and decode observation
// sequences against stored or file-based Hidden Markov Models.
// See docs/ARCHITECTURE.md § CLI.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errSystem) {
			os.Exit(exitSysError)
		}
		os.Exit(exitUserError)
	}
}
