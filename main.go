// Package main is the entry point for the dirsig CLI application.
// It initializes all subcommands and executes the root command.
package main

import (
	"github.com/lucho00cuba/dirsig/cmd"
	_ "github.com/lucho00cuba/dirsig/cmd/diff"
	_ "github.com/lucho00cuba/dirsig/cmd/lookup"
	_ "github.com/lucho00cuba/dirsig/cmd/scan"
	_ "github.com/lucho00cuba/dirsig/cmd/verify"
)

// main is the entry point of the application.
// It executes the root command which handles all CLI interactions.
func main() {
	cmd.Execute()
}
