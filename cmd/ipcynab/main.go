// Package main is the entry point for the ipcynab CLI.
package main

import (
	"os"

	"ipcynab/cmd/ipcynab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
