package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/catalogmd/catalogmd/internal/schema"
)

// Document wraps a catalog under its top-level key, matching the on-disk
// representation of the external data contract.
type Document struct {
	Catalog *Catalog `json:"catalog" yaml:"catalog"`
}

// ReadOptions control catalog deserialization.
type ReadOptions struct {
	// ValidateSchema runs the structural schema check on JSON documents
	// before decoding into the model.
	ValidateSchema bool
}

// ReadFile loads a catalog document from a JSON or YAML file, keyed on the
// file extension.
func ReadFile(path string, opts ReadOptions) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if opts.ValidateSchema {
			if err := schema.ValidateCatalogDocument(data); err != nil {
				return nil, err
			}
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	if doc.Catalog == nil {
		return nil, fmt.Errorf("catalog: %s has no catalog document", path)
	}
	return doc.Catalog, nil
}

// WriteFile stores a catalog document as JSON or YAML, keyed on the file
// extension. Parent directories are created as needed.
func WriteFile(path string, cat *Catalog) error {
	if cat == nil {
		return ErrNilCatalog
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("catalog: mkdir for %s: %w", path, err)
	}

	doc := Document{Catalog: cat}
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return fmt.Errorf("catalog: encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", path, err)
	}
	return nil
}
