package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	orchestrators "github.com/ochairo/signcfg/internal/domain-orchestrators"
	"github.com/ochairo/signcfg/internal/domain/interfaces"
)

// ResolveReport is the machine-readable output of resolve. It never carries secrets.
type ResolveReport struct {
	Source          string            `json:"source"`
	Found           bool              `json:"found"`
	Ready           bool              `json:"ready"`
	Missing         []string          `json:"missing,omitempty"`
	StoreFile       string            `json:"store_file,omitempty"`
	KeystoreSHA256  string            `json:"keystore_sha256,omitempty"`
	KeystoreMissing bool              `json:"keystore_missing,omitempty"`
	Namespace       string            `json:"namespace,omitempty"`
	BuildTypes      []BuildTypeReport `json:"build_types"`
}

// BuildTypeReport describes one build type in the resolve report
type BuildTypeReport struct {
	Name            string `json:"name"`
	MinifyEnabled   bool   `json:"minify_enabled"`
	ShrinkResources bool   `json:"shrink_resources"`
	SigningConfig   string `json:"signing_config"`
}

func runResolve(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	opts := registerCommonFlags(fs)
	jsonOutput := fs.Bool("json", false, "Print the report as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: signcfg resolve [options]

Check whether release signing credentials are complete and show how the
release build type is bound. Incomplete or absent credentials fall back to
the toolchain default signature; a malformed credentials file is an error.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Exit Codes:
  0  Evaluation succeeded (ready or falling back to default signing)
  1  Credentials file could not be parsed, or another error
  2  Usage error
  3  Credentials incomplete and --require-release-key was given

Examples:
  signcfg resolve --project android
  signcfg resolve --project android --json
  signcfg resolve --properties key.properties.gpg --require-release-key
`)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	logger := newLogger(opts.quiet)
	err := executeResolve(ctx, os.Stdout, logger, opts, *jsonOutput)
	if err != nil {
		logger.Error(err.Error())
	}
	return exitCode(err)
}

func executeResolve(ctx context.Context, out io.Writer, logger interfaces.Logger, opts *commonOptions, jsonOutput bool) error {
	result, err := configure(ctx, opts, logger)
	if result == nil {
		return err
	}

	report := buildResolveReport(result)

	switch {
	case jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return fmt.Errorf("failed to write report: %w", encErr)
		}
	case !opts.quiet:
		printResolveReport(out, report)
	}

	return err
}

func buildResolveReport(result *orchestrators.ConfigureResult) *ResolveReport {
	report := &ResolveReport{
		Source:          result.Resolution.Source,
		Found:           result.Resolution.Found,
		Ready:           result.Ready(),
		Missing:         result.Resolution.Missing,
		KeystoreSHA256:  result.KeystoreFingerprint,
		KeystoreMissing: result.KeystoreMissing,
		Namespace:       result.Configuration.Namespace,
		BuildTypes:      make([]BuildTypeReport, 0, len(result.Configuration.BuildTypes)),
	}
	if signing := result.ReleaseSigning(); signing != nil {
		report.StoreFile = signing.StoreFile
	}

	for _, name := range result.Configuration.BuildTypeNames() {
		bt := result.Configuration.BuildTypes[name]
		signingName := "default"
		if bt.SigningConfig != nil {
			signingName = bt.SigningConfig.Name
		}
		report.BuildTypes = append(report.BuildTypes, BuildTypeReport{
			Name:            bt.Name,
			MinifyEnabled:   bt.MinifyEnabled,
			ShrinkResources: bt.ShrinkResources,
			SigningConfig:   signingName,
		})
	}

	return report
}

func printResolveReport(out io.Writer, report *ResolveReport) {
	fmt.Fprintf(out, "🔍 Credentials: %s\n", report.Source)

	switch {
	case report.Ready:
		fmt.Fprintf(out, "✅ READY: release builds are signed with %s\n", report.StoreFile)
		if report.KeystoreSHA256 != "" {
			fmt.Fprintf(out, "  Keystore SHA-256: %s\n", report.KeystoreSHA256)
		}
		if report.KeystoreMissing {
			fmt.Fprintf(out, "  ⚠️  Keystore file does not exist\n")
		}
	case !report.Found:
		fmt.Fprintf(out, "⚠️  NOT READY: credentials file not found, release uses the default signature\n")
	default:
		fmt.Fprintf(out, "⚠️  NOT READY: missing %v, release uses the default signature\n", report.Missing)
	}

	fmt.Fprintf(out, "\n Build types:\n")
	for _, bt := range report.BuildTypes {
		fmt.Fprintf(out, "  %-10s signing=%s minify=%t shrinkResources=%t\n",
			bt.Name, bt.SigningConfig, bt.MinifyEnabled, bt.ShrinkResources)
	}
}
