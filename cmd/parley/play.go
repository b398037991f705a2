package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parleyio/parley/internal/cli"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play <dialogue>",
	Short: "Play a dialogue interactively",
	Long:  `Starts the named dialogue in the terminal. Lines advance on enter; choices are picked by number.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		debug, _ := cmd.Flags().GetBool("debug")
		plain, _ := cmd.Flags().GetBool("plain")
		strict, _ := cmd.Flags().GetBool("strict")
		watchMode, _ := cmd.Flags().GetBool("watch")

		opts := cli.PlayOptions{Debug: debug, Plain: plain, Strict: strict}

		var err error
		if watchMode {
			err = cli.RunWatch(dir, args[0], opts)
		} else {
			err = cli.RunPlay(dir, args[0], opts)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Bool("plain", false, "Disable terminal styling")
	playCmd.Flags().Bool("strict", false, "Fail on dangling transitions instead of ending the dialogue")
	playCmd.Flags().BoolP("watch", "w", false, "Replay from the top when dialogue files change")
}
