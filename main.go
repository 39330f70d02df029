// Package main is the entry point for the pfwatch firewall log parser.
package main

import (
	"fmt"
	"os"

	"github.com/pfwatch/pfwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
