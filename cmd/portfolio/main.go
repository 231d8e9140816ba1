// Command portfolio serves the portfolio API and exposes Markdown tooling
// for rendering, previewing and syncing content from the terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "portfolio:", err)
		os.Exit(1)
	}
}
