package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	fsw "github.com/corey/translit/internal/adapters/fsnotify"
	"github.com/corey/translit/internal/adapters/yamlrules"
	"github.com/corey/translit/internal/domain/engine"
	"github.com/corey/translit/internal/ports"
)

// newWatcher builds the rules-file watcher behind the watcher contract.
func newWatcher() (ports.FileWatcher, error) {
	return fsw.NewWatcher()
}

var watchFlags struct {
	rulesPath    string
	ignoreErrors bool
}

var watchCmd = &cobra.Command{
	Use:   "watch <sample>...",
	Short: "Recompile and re-transliterate on every rules-file change",
	Long:  "Watches the rules file and re-runs each SAMPLE input whenever it changes: the rule author's edit loop. Ctrl-C to stop.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFlags.rulesPath == "" {
		return fmt.Errorf("--rules <file> is required")
	}

	rerun := func() {
		spec, err := yamlrules.LoadFile(watchFlags.rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s✗%s %v\n", colorYellow, colorReset, err)
			return
		}
		eng, err := compileSpec(spec, engine.Options{
			CheckAmbiguity: true,
			IgnoreErrors:   watchFlags.ignoreErrors,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s✗%s %v\n", colorYellow, colorReset, err)
			return
		}
		for _, sample := range args {
			out, err := eng.Transliterate(sample)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s✗%s %q: %v\n", colorYellow, colorReset, sample, err)
				continue
			}
			fmt.Printf("  %s%s%s → %s\n", colorCyan, sample, colorReset, out)
		}
	}

	rerun()

	watcher, err := newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if err := watcher.Watch(watchFlags.rulesPath, func() {
		fmt.Printf("%s⟳ %s changed%s\n", colorBold, watchFlags.rulesPath, colorReset)
		rerun()
	}); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func init() {
	watchCmd.Flags().StringVarP(&watchFlags.rulesPath, "rules", "r", "", "path to an easy-reading YAML rules file")
	watchCmd.Flags().BoolVar(&watchFlags.ignoreErrors, "ignore-errors", false, "skip unrecognized input and unmatched positions instead of failing")
}
