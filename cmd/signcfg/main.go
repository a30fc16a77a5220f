// Package main provides the signcfg CLI for resolving Android release signing.
package main

import (
	"context"
	"fmt"
	"os"
)

// Exit codes shared by subcommands
const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitNotReady = 3
)

const (
	envPassphrase     = "SIGNCFG_PASSPHRASE"
	envDebug          = "SIGNCFG_DEBUG"
	defaultProjectDir = "."
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "resolve":
		os.Exit(runResolve(ctx, os.Args[2:]))
	case "export":
		os.Exit(runExport(ctx, os.Args[2:]))
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(exitUsage)
	}
}

func printUsage() {
	fmt.Println(`signcfg - Release signing configuration resolver

Usage:
  signcfg <command> [options]

Commands:
  resolve   Check whether release credentials are complete and show the binding
  export    Emit the release signing config for the Android Gradle plugin

Environment:
  SIGNCFG_PASSPHRASE  Passphrase for encrypted credentials files (*.gpg, *.asc)
  SIGNCFG_DEBUG=1     Enable debug logging

Use "signcfg <command> --help" for more information about a command.`)
}
