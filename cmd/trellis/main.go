package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFormat  string
	flagLocales string
	flagDefault string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "trellis",
	Short:         "Reference resolution and validation for message catalogs",
	Long:          "Trellis loads per-locale translation catalogs (JSON, TOML, YAML), expands @:path cross-references, and validates reference integrity across every locale before a site builds.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run: prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagLocales, "locales", "", "comma-separated locale filter (e.g. en,fr)")
	rootCmd.PersistentFlags().StringVar(&flagDefault, "default-locale", "en", "locale other locales are compared against")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(exportCmd)
}
