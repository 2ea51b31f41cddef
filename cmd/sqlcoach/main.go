// Package main provides the SQLCoach command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlcoach/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
