package main

import (
	"fmt"
	"os"

	"github.com/crucial707/monster-mashup/cmd/cli/auth"
	"github.com/crucial707/monster-mashup/cmd/cli/history"
	"github.com/crucial707/monster-mashup/cmd/cli/root"
	"github.com/crucial707/monster-mashup/cmd/cli/search"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	search.InitSearch(rootCmd)
	history.InitHistory(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
