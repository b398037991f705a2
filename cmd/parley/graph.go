package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parleyio/parley"
	"github.com/parleyio/parley/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <dialogue>",
	Short: "Export a dialogue graph visualization",
	Long:  `Decodes the named dialogue and outputs a Mermaid diagram (graph TD) of its nodes and transitions.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")

		engine, err := parley.New(dir)
		if err != nil {
			fmt.Printf("Error initializing parley: %v\n", err)
			os.Exit(1)
		}

		g, err := engine.Loader().Load(args[0])
		if err != nil {
			fmt.Printf("Error loading dialogue: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(g, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
