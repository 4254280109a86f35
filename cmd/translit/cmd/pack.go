package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/translit/internal/adapters/yamlrules"
	"github.com/corey/translit/internal/domain/engine"
)

var packFlags struct {
	rulesPath string
	dbPath    string
	noCheck   bool
}

var packCmd = &cobra.Command{
	Use:   "pack <name>",
	Short: "Store a rule set in the packed database",
	Long:  "Validates, compiles, and stores a YAML rule set under NAME so later runs can load it without re-parsing.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPack,
}

func runPack(cmd *cobra.Command, args []string) error {
	name := args[0]
	if packFlags.rulesPath == "" {
		return fmt.Errorf("--rules <file> is required")
	}

	spec, err := yamlrules.LoadFile(packFlags.rulesPath)
	if err != nil {
		return err
	}

	// Compile before storing: a packed rule set is always loadable.
	if _, err := compileSpec(spec, engine.Options{CheckAmbiguity: !packFlags.noCheck}); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(packFlags.dbPath), 0755); err != nil {
		return err
	}
	store, err := openStore(packFlags.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveRuleSet(name, spec); err != nil {
		return err
	}
	fmt.Printf("%s✓ packed%s %s │ %d tokens │ %d rules → %s\n",
		colorGreen, colorReset, name, len(spec.Tokens), len(spec.Rules), packFlags.dbPath)
	return nil
}

func init() {
	packCmd.Flags().StringVarP(&packFlags.rulesPath, "rules", "r", "", "path to an easy-reading YAML rules file")
	packCmd.Flags().StringVar(&packFlags.dbPath, "db", defaultDBPath, "path to the packed rule-set database")
	packCmd.Flags().BoolVar(&packFlags.noCheck, "no-ambiguity-check", false, "skip the build-time ambiguity analysis")
}
