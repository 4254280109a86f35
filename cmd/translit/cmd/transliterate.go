package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/translit/internal/domain/engine"
)

var transliterateFlags struct {
	source       sourceFlags
	noCheck      bool
	ignoreErrors bool
	trace        bool
	asJSON       bool
}

var transliterateCmd = &cobra.Command{
	Use:   "transliterate [input]...",
	Short: "Transliterate input strings",
	Long:  "Compiles the rule set and transliterates each INPUT argument, one output per line.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTransliterate,
}

func runTransliterate(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(&transliterateFlags.source)
	if err != nil {
		return err
	}
	eng, err := compileSpec(spec, engine.Options{
		CheckAmbiguity: !transliterateFlags.noCheck,
		IgnoreErrors:   transliterateFlags.ignoreErrors,
	})
	if err != nil {
		return err
	}

	var outputs []string
	for _, input := range args {
		result, err := eng.TransliterateTrace(input)
		if err != nil {
			return fmt.Errorf("transliterate %q: %w", input, err)
		}
		outputs = append(outputs, result.Output)
		if transliterateFlags.trace {
			fmt.Print(formatTrace(eng, result))
		}
	}

	if transliterateFlags.asJSON {
		data, err := json.Marshal(outputs)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	for _, out := range outputs {
		fmt.Println(out)
	}
	return nil
}

func init() {
	addSourceFlags(transliterateCmd, &transliterateFlags.source)
	transliterateCmd.Flags().BoolVar(&transliterateFlags.noCheck, "no-ambiguity-check", false, "skip the build-time ambiguity analysis")
	transliterateCmd.Flags().BoolVar(&transliterateFlags.ignoreErrors, "ignore-errors", false, "skip unrecognized input and unmatched positions instead of failing")
	transliterateCmd.Flags().BoolVar(&transliterateFlags.trace, "trace", false, "show matched rules per input")
	transliterateCmd.Flags().BoolVar(&transliterateFlags.asJSON, "json", false, "emit outputs as a JSON array")
}
