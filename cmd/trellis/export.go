package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jward/trellis"
	"github.com/spf13/cobra"
)

var flagOut string

var exportCmd = &cobra.Command{
	Use:   "export [locales-root]",
	Short: "Write fully resolved catalogs as JSON",
	Long: "Expands every reference in every locale and writes one <locale>.json per " +
		"locale to the output directory, ready for a site build to consume.",
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagOut, "out", "resolved", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	root, err := resolveLocalesRoot(args)
	if err != nil {
		return outputError("export", err)
	}

	ctx := context.Background()
	e, err := loadEngine(ctx, root)
	if err != nil {
		return outputError("export", err)
	}

	resolved, err := e.ResolveAll(ctx)
	if err != nil {
		return outputError("export", err)
	}

	if err := os.MkdirAll(flagOut, 0o755); err != nil {
		return outputError("export", fmt.Errorf("creating %s: %w", flagOut, err))
	}

	for _, locale := range e.Locales() {
		data, err := json.MarshalIndent(trellis.ToAny(resolved[locale]), "", "  ")
		if err != nil {
			return outputError("export", fmt.Errorf("marshal %s: %w", locale, err))
		}
		path := filepath.Join(flagOut, locale+".json")
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return outputError("export", fmt.Errorf("write %s: %w", path, err))
		}
	}

	fmt.Fprintf(os.Stderr, "Exported %d locale(s) to %s\n", len(e.Locales()), flagOut)
	return nil
}
