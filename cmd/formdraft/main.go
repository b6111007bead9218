// Package main provides the formdraft CLI: fill a form in the terminal with
// drafts saved on every answer, inspect or clear the saved draft, and probe
// the prediction service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
