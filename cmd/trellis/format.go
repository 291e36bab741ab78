package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jward/trellis"
)

// formatDiagnosticsText formats diagnostics as aligned columns, one row per
// problem, with suggestions on a trailing indented line.
func formatDiagnosticsText(w io.Writer, diags []trellis.Diagnostic) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tLOCALE\tKEY\tKIND\tMESSAGE")
	for _, d := range diags {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			d.Severity, d.Locale, d.Key, d.Kind, d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(tw, "\t\t\t\tdid you mean %q?\n", d.Suggestion)
		}
	}
	tw.Flush()
}

// formatValidationText prints the diagnostics table plus a one-line summary.
func formatValidationText(w io.Writer, v CLIValidation) {
	if len(v.Diagnostics) > 0 {
		formatDiagnosticsText(w, v.Diagnostics)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d locale(s) checked: %d error(s), %d warning(s)\n",
		len(v.Locales), v.Errors, v.Warnings)
}

// formatKeysText prints one key per line.
func formatKeysText(w io.Writer, k CLIKeys) {
	for _, key := range k.Keys {
		fmt.Fprintln(w, key)
	}
}

// formatTraversalText prints a BFS traversal as indented depth levels.
func formatTraversalText(w io.Writer, tr *trellis.Traversal) {
	for _, node := range tr.Nodes {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", node.Depth), node.Key)
	}
}

// outputResult writes a command result to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputResultText dispatches to the appropriate text formatter based on
// the result type.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case CLIValidation:
		formatValidationText(w, v)
	case CLIResolved:
		fmt.Fprintln(w, v.Value)
	case CLIKeys:
		formatKeysText(w, v)
	case *trellis.Traversal:
		formatTraversalText(w, v)
	case []trellis.Diagnostic:
		formatDiagnosticsText(w, v)
	case nil:
		// No output.
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// outputError reports a command failure in the selected format.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
