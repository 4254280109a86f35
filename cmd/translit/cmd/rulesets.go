package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesetsFlags struct {
	dbPath string
	remove string
}

var rulesetsCmd = &cobra.Command{
	Use:   "rulesets",
	Short: "List or remove packed rule sets",
	RunE:  runRulesets,
}

func runRulesets(cmd *cobra.Command, args []string) error {
	store, err := openStore(rulesetsFlags.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if rulesetsFlags.remove != "" {
		if err := store.DeleteRuleSet(rulesetsFlags.remove); err != nil {
			return err
		}
		fmt.Printf("%s✓ removed%s %s\n", colorGreen, colorReset, rulesetsFlags.remove)
		return nil
	}

	names, err := store.ListRuleSets()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Printf("%sno packed rule sets%s │ %s\n", colorGray, colorReset, rulesetsFlags.dbPath)
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func init() {
	rulesetsCmd.Flags().StringVar(&rulesetsFlags.dbPath, "db", defaultDBPath, "path to the packed rule-set database")
	rulesetsCmd.Flags().StringVar(&rulesetsFlags.remove, "remove", "", "remove the named rule set instead of listing")
}
