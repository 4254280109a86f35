package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/translit/internal/domain/engine"
)

var checkFlags struct {
	source sourceFlags
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a rule set for ambiguity",
	Long:  "Runs the static ambiguity analysis and reports every pair of equal-cost rules whose match windows can overlap unresolved.",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(&checkFlags.source)
	if err != nil {
		return err
	}
	eng, err := compileSpec(spec, engine.Options{CheckAmbiguity: false})
	if err != nil {
		return err
	}

	reports := eng.CheckAmbiguity()
	if len(reports) == 0 {
		fmt.Printf("%s✓ no ambiguity%s │ %d rules\n", colorGreen, colorReset, len(eng.Rules()))
		return nil
	}

	fmt.Print(formatAmbiguity(eng, reports))
	return fmt.Errorf("%d ambiguous rule pair(s)", len(reports))
}

func init() {
	addSourceFlags(checkCmd, &checkFlags.source)
}
