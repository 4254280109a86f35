package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "translit",
	Short:         "translit — graph-based transliteration engine",
	Long:          "Rule-driven transliteration with context constraints, ambiguity checking, and packed rule sets.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.AddCommand(transliterateCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(rulesetsCmd)
	rootCmd.AddCommand(watchCmd)
}
