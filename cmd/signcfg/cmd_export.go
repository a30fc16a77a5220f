package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ochairo/signcfg/internal/domain-adapters/gateways"
	"github.com/ochairo/signcfg/internal/domain/interfaces"
)

// Export formats
const (
	formatArgs       = "args"
	formatProperties = "properties"
)

func runExport(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	opts := registerCommonFlags(fs)
	var (
		format = fs.String("format", formatArgs, "Output format: args (shell-quoted -P flags) or properties")
		output = fs.String("output", "", "Write to this file (mode 0600) instead of stdout")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: signcfg export [options]

Emit the release signing config as Android Gradle plugin injected-signing
properties. Nothing is emitted when credentials are incomplete, so the
toolchain default signature applies.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
The args format is quoted for a POSIX shell, so run it through eval:

Examples:
  eval "./gradlew assembleRelease $(signcfg export --project android)"
  signcfg export --format properties --output build/signing.properties
`)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if *format != formatArgs && *format != formatProperties {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n\n", *format)
		fs.Usage()
		return exitUsage
	}

	logger := newLogger(opts.quiet)
	err := executeExport(ctx, os.Stdout, logger, opts, *format, *output)
	if err != nil {
		logger.Error(err.Error())
	}
	return exitCode(err)
}

func executeExport(ctx context.Context, out io.Writer, logger interfaces.Logger, opts *commonOptions, format, output string) error {
	result, err := configure(ctx, opts, logger)
	if err != nil {
		return err
	}

	exporter := gateways.NewGradleExporter()
	signing := result.ReleaseSigning()

	switch format {
	case formatProperties:
		if output != "" {
			return exporter.WriteFile(output, signing)
		}
		return exporter.WriteProperties(out, signing)
	default:
		var text string
		if line := exporter.ShellArgs(signing); line != "" {
			text = line + "\n"
		}
		if output != "" {
			return writeSecretFile(output, text)
		}
		_, err := io.WriteString(out, text)
		return err
	}
}

// writeSecretFile restricts the mode before any secret is written, since
// O_TRUNC keeps the permissions of an existing file
func writeSecretFile(path, content string) error {
	//nolint:gosec // G304: path is the operator-provided output file
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := f.Chmod(0600); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to restrict %s: %w", path, err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
