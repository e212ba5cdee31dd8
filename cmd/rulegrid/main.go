// Command rulegrid reconstructs ruled tables from the vector graphics of
// PDF pages and prints them as HTML, YAML or JSON.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
