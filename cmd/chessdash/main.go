// Command chessdash ingests chess games from Lichess and Chess.com into a
// local analytics database and serves a dashboard over it.
package main

import (
	"fmt"
	"os"

	"chessdash/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
