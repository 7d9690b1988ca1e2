// Package main is the entry point for the weekplan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/runoshun/weekplan/internal/app"
	"github.com/runoshun/weekplan/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// The container is opened by the root command once flags are parsed
	container := app.New()
	defer func() { _ = container.Close() }()

	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
