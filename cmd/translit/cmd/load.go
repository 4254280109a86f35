package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/translit/internal/adapters/ahocorasick"
	bboltstore "github.com/corey/translit/internal/adapters/bbolt"
	"github.com/corey/translit/internal/adapters/yamlrules"
	"github.com/corey/translit/internal/domain/engine"
	"github.com/corey/translit/internal/ports"
)

const defaultDBPath = ".translit/translit.db"

// sourceFlags is the shared --rules/--packed/--db flag set. Exactly one of
// rules file or packed name selects the spec source.
type sourceFlags struct {
	rulesPath  string
	packedName string
	dbPath     string
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVarP(&f.rulesPath, "rules", "r", "", "path to an easy-reading YAML rules file")
	cmd.Flags().StringVarP(&f.packedName, "packed", "p", "", "name of a packed rule set")
	cmd.Flags().StringVar(&f.dbPath, "db", defaultDBPath, "path to the packed rule-set database")
}

// loadSpec resolves the spec from the selected source.
func loadSpec(f *sourceFlags) (*ports.Spec, error) {
	switch {
	case f.rulesPath != "" && f.packedName != "":
		return nil, fmt.Errorf("--rules and --packed are mutually exclusive")
	case f.rulesPath != "":
		return yamlrules.LoadFile(f.rulesPath)
	case f.packedName != "":
		store, err := openStore(f.dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		spec, err := store.LoadRuleSet(f.packedName)
		if err != nil {
			return nil, err
		}
		if spec == nil {
			return nil, fmt.Errorf("no packed rule set %q in %s", f.packedName, f.dbPath)
		}
		return spec, nil
	default:
		return nil, fmt.Errorf("a rule source is required: --rules <file> or --packed <name>")
	}
}

// openStore opens the packed rule-set database behind the store contract.
func openStore(path string) (ports.RuleSetStore, error) {
	return bboltstore.NewStore(path)
}

// compileSpec builds an engine with a scanner over the spec's token set.
func compileSpec(spec *ports.Spec, opts engine.Options) (*engine.Engine, error) {
	scanner := ahocorasick.NewScanner(spec.TokenList())
	return engine.Compile(*spec, scanner, opts)
}
