// Command settingsgen inspects, renders, and edits the settings of the
// Facebook page events integration from the terminal.
package main

import (
	"context"
	"os"
)

func main() {
	a := newApp(os.Stdout, os.Stderr)
	if err := a.execute(context.Background(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
