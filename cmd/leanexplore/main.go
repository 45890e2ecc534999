// Package main provides the entry point for the leanexplore CLI.
package main

import (
	"os"

	"github.com/KellyJDavis/lean-explore/cmd/leanexplore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
