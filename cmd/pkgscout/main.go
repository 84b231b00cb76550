// Package main provides the entry point for the pkgscout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pkgscout",
	Short: "Intelligent Python project scaffolding",
	Long:  "pkgscout scaffolds a new Python project: it refines your package list with LLM analysis and registry research, asks you to approve each suggestion, then creates an isolated uv environment with the approved packages installed.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
