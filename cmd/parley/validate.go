package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parleyio/parley"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dialogue...]",
	Short: "Check dialogue graphs for consistency",
	Long:  `Decodes the given dialogues (or all of them) and reports structural problems such as missing start nodes and edges to nowhere.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")

		failed, err := runValidate(dir, args)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
		fmt.Println("All dialogues are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(dir string, names []string) (bool, error) {
	engine, err := parley.New(dir)
	if err != nil {
		return false, fmt.Errorf("failed to init engine: %w", err)
	}

	if len(names) == 0 {
		names, err = engine.List()
		if err != nil {
			return false, err
		}
		if len(names) == 0 {
			return false, fmt.Errorf("no dialogues found in %s", dir)
		}
	}

	failed := false
	for _, name := range names {
		problems, err := engine.Validate(name)
		if err != nil {
			return false, err
		}
		for _, p := range problems {
			fmt.Printf("%s: %v\n", name, p)
			failed = true
		}
	}
	return failed, nil
}
