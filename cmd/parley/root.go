package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley is a graph-based dialogue engine",
	Long:  `Parley plays, validates and serves branching dialogues stored as JSON or YAML graphs.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing dialogue files")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}
