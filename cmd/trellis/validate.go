package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jward/trellis"
	"github.com/spf13/cobra"
)

var (
	flagCache     string
	flagNoSuggest bool
	flagSerial    bool
	flagStrict    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [locales-root]",
	Short: "Validate reference integrity across every locale",
	Long: "Loads every catalog under the locales root, extracts every @:path reference, " +
		"and reports every invalid path, non-string target, unsupported modifier, and " +
		"reference cycle, plus key parity against the default locale. All problems are " +
		"accumulated; validation never stops at the first error.",
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&flagCache, "cache", "", "SQLite cache path for incremental validation (e.g. .trellis/cache.db)")
	validateCmd.Flags().BoolVar(&flagNoSuggest, "no-suggest", false, "disable nearest-path suggestions")
	validateCmd.Flags().BoolVar(&flagSerial, "serial", false, "validate locales on a single goroutine")
	validateCmd.Flags().BoolVar(&flagStrict, "strict", false, "treat warnings as failures")
}

func runValidate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	root, err := resolveLocalesRoot(args)
	if err != nil {
		return outputError("validate", err)
	}

	var opts []trellis.Option
	opts = append(opts, trellis.WithParallel(!flagSerial))
	opts = append(opts, trellis.WithValidator(
		trellis.NewValidator(trellis.WithSuggestions(!flagNoSuggest))))
	if flagCache != "" {
		cacheDir := filepath.Dir(flagCache)
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return outputError("validate", fmt.Errorf("creating %s: %w", cacheDir, err))
		}
		opts = append(opts, trellis.WithCachePath(flagCache))
	}

	ctx := context.Background()
	e, err := loadEngine(ctx, root, opts...)
	if err != nil {
		return outputError("validate", err)
	}

	diags, err := e.Validate(ctx)
	if err != nil {
		return outputError("validate", err)
	}

	result := CLIValidation{
		Locales:     e.Locales(),
		Diagnostics: diags,
	}
	for _, d := range diags {
		switch d.Severity {
		case trellis.SeverityError:
			result.Errors++
		case trellis.SeverityWarning:
			result.Warnings++
		}
	}

	if err := outputResult(CLIResult{Command: "validate", Results: result}); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Validated %s in %s\n", root, time.Since(start).Round(time.Millisecond))

	if result.Errors > 0 || (flagStrict && result.Warnings > 0) {
		errorHandled = true
		return fmt.Errorf("validation failed: %d error(s), %d warning(s)", result.Errors, result.Warnings)
	}
	return nil
}
