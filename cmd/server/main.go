// Package main implements the entry point for the Lingua API server, which
// schedules flashcard reviews and tracks learner progress per language.
package main

import (
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
