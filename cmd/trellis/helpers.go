package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/trellis"
)

// resolveLocalesRoot returns the absolute path of the locales directory to
// operate on. Defaults to ./locales when no positional argument is given.
func resolveLocalesRoot(args []string) (string, error) {
	dir := "locales"
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("locales directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// loadEngine builds an Engine from the shared flags and loads the catalogs
// under root.
func loadEngine(ctx context.Context, root string, extra ...trellis.Option) (*trellis.Engine, error) {
	opts := []trellis.Option{trellis.WithDefaultLocale(flagDefault)}
	if flagLocales != "" {
		locales := strings.Split(flagLocales, ",")
		for i := range locales {
			locales[i] = strings.TrimSpace(locales[i])
		}
		opts = append(opts, trellis.WithLocales(locales...))
	}
	opts = append(opts, extra...)

	e := trellis.NewEngine(opts...)
	if err := e.Load(ctx, root); err != nil {
		return nil, err
	}
	return e, nil
}
