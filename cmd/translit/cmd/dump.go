package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var dumpFlags struct {
	source sourceFlags
	pretty bool
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the processed rule set as JSON",
	Long:  "Prints the structured spec — tokens, processed rules, onmatch rules, whitespace, metadata — as JSON.",
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(&dumpFlags.source)
	if err != nil {
		return err
	}

	var data []byte
	if dumpFlags.pretty {
		data, err = json.MarshalIndent(spec, "", "  ")
	} else {
		data, err = json.Marshal(spec)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	addSourceFlags(dumpCmd, &dumpFlags.source)
	dumpCmd.Flags().BoolVar(&dumpFlags.pretty, "pretty", false, "indent the JSON output")
}
