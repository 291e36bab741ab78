package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs lists directories that are never walked for catalog files.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// Discover walks a locales root and returns catalog file paths grouped by
// locale, each group sorted for deterministic merge order.
//
// Two layouts are recognized, and may be mixed:
//
//	<root>/<locale>.<ext>             one file per locale
//	<root>/<locale>/<name>.<ext>      a directory of files per locale
//
// Hidden directories, node_modules, and vendor are skipped.
func Discover(root string) (map[string][]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("locales root not found: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	byLocale := make(map[string][]string)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := FormatForFile(path); !ok {
			return nil
		}
		locale := localeForFile(root, path)
		if locale == "" {
			return nil
		}
		byLocale[locale] = append(byLocale[locale], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk locales root: %w", err)
	}

	for locale := range byLocale {
		sort.Strings(byLocale[locale])
	}
	return byLocale, nil
}

// localeForFile derives the locale from a catalog file's position under
// root: the first path element for nested layouts, the file's base name for
// flat layouts.
func localeForFile(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) == 1 {
		base := parts[0]
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return parts[0]
}
