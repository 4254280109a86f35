// translit is a graph-based transliteration tool: declarative rule sets
// turn the symbols of one script into another, with context-aware matching.
package main

import (
	"os"

	"github.com/corey/translit/cmd/translit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
