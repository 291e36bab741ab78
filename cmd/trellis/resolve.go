package main

import (
	"context"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <locale> <key> [locales-root]",
	Short: "Resolve one key fully, expanding every reference",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	locale, key := args[0], args[1]

	root, err := resolveLocalesRoot(args[2:])
	if err != nil {
		return outputError("resolve", err)
	}

	ctx := context.Background()
	e, err := loadEngine(ctx, root)
	if err != nil {
		return outputError("resolve", err)
	}

	value, err := e.Resolve(locale, key)
	if err != nil {
		return outputError("resolve", err)
	}

	return outputResult(CLIResult{
		Command: "resolve",
		Results: CLIResolved{Locale: locale, Key: key, Value: value},
	})
}
