package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/translit/internal/domain/engine"
)

var tokenizeFlags struct {
	source       sourceFlags
	ignoreErrors bool
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <input>",
	Short: "Show the tokenization of an input string",
	Long:  "Tokenizes INPUT with the rule set's declared tokens, printing one token per line. Whitespace sentinels are included.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(&tokenizeFlags.source)
	if err != nil {
		return err
	}
	eng, err := compileSpec(spec, engine.Options{IgnoreErrors: tokenizeFlags.ignoreErrors})
	if err != nil {
		return err
	}

	tokens, err := eng.Tokenize(args[0])
	if err != nil {
		return err
	}
	for i, token := range tokens {
		fmt.Printf("%s%3d%s  %q\n", colorGray, i, colorReset, token)
	}
	return nil
}

func init() {
	addSourceFlags(tokenizeCmd, &tokenizeFlags.source)
	tokenizeCmd.Flags().BoolVar(&tokenizeFlags.ignoreErrors, "ignore-errors", false, "skip unrecognized input instead of failing")
}
