// Package main is the entry point for the prewash CLI.
package main

import (
	"os"

	// MySQL driver for backfill's database access.
	_ "github.com/go-sql-driver/mysql"

	"github.com/go-prewash/prewash/cmd/prewash/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
