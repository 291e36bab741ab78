// Package catalog discovers and decodes per-locale message catalog files.
// It knows nothing about reference resolution; it turns files on disk into
// raw nested maps plus the metadata (locale, format, content hash) the
// engine needs for merging and incremental validation.
package catalog

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Document is one decoded catalog file.
type Document struct {
	Path   string
	Locale string
	Format string // "json", "toml", or "yaml"
	Hash   string // sha256 of the raw file content
	Data   map[string]any
}

// formats maps file extensions to catalog formats.
var formats = map[string]string{
	".json": "json",
	".toml": "toml",
	".yaml": "yaml",
	".yml":  "yaml",
}

// FormatForFile returns the catalog format for a file path, or false when
// the extension is not a catalog format.
func FormatForFile(path string) (string, bool) {
	f, ok := formats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Load reads and decodes one catalog file for the given locale.
func Load(path, locale string) (*Document, error) {
	format, ok := FormatForFile(path)
	if !ok {
		return nil, fmt.Errorf("load %s: unsupported catalog format", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	data, err := decode(content, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return &Document{
		Path:   path,
		Locale: locale,
		Format: format,
		Hash:   fmt.Sprintf("%x", sha256.Sum256(content)),
		Data:   data,
	}, nil
}

// decode unmarshals raw catalog content into a nested map. The document
// root must be an object; catalogs rooted in arrays or scalars have no keys
// to address.
func decode(content []byte, format string) (map[string]any, error) {
	switch format {
	case "json":
		v, err := oj.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("catalog root must be an object, got %T", v)
		}
		return m, nil
	case "toml":
		var m map[string]any
		if err := toml.Unmarshal(content, &m); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		return m, nil
	case "yaml":
		var m map[string]any
		if err := yaml.Unmarshal(content, &m); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if m == nil {
			m = map[string]any{}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
