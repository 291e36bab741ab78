package main

import (
	"context"
	"fmt"

	"github.com/jward/trellis"
	"github.com/spf13/cobra"
)

var (
	flagKeysLocale string
	flagMissing    bool
)

var keysCmd = &cobra.Command{
	Use:   "keys [locales-root]",
	Short: "List the flattened keys of a locale's message tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeys,
}

func init() {
	keysCmd.Flags().StringVar(&flagKeysLocale, "locale", "", "locale to list (default: the default locale)")
	keysCmd.Flags().BoolVar(&flagMissing, "missing", false, "report key parity problems instead of listing keys")
}

func runKeys(cmd *cobra.Command, args []string) error {
	root, err := resolveLocalesRoot(args)
	if err != nil {
		return outputError("keys", err)
	}

	ctx := context.Background()
	e, err := loadEngine(ctx, root)
	if err != nil {
		return outputError("keys", err)
	}

	if flagMissing {
		diags, err := e.Validate(ctx)
		if err != nil {
			return outputError("keys", err)
		}
		var parity []trellis.Diagnostic
		for _, d := range diags {
			if d.Kind == trellis.KindMissingKey || d.Kind == trellis.KindExtraKey {
				parity = append(parity, d)
			}
		}
		return outputResult(CLIResult{Command: "keys", Results: parity})
	}

	locale := flagKeysLocale
	if locale == "" {
		locale = flagDefault
	}
	cat := e.Catalog(locale)
	if cat == nil {
		return outputError("keys", fmt.Errorf("locale %q is not loaded", locale))
	}

	return outputResult(CLIResult{
		Command: "keys",
		Results: CLIKeys{Locale: locale, Keys: cat.Root.Keys()},
	})
}
