package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const versionString = "0.1.0"

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		color.New(color.Bold).Fprintln(os.Stdout, "pkgscout") //nolint:errcheck
		fmt.Printf("Version: %s\n", color.CyanString(versionString))
	},
}

func init() {
	rootCmd.AddCommand(versionCommand)
}
