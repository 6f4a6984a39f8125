package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/catalogmd/catalogmd/internal/schema"
)

func TestReadWriteFileJSON(t *testing.T) {
	cat := sampleCatalog()
	path := filepath.Join(t.TempDir(), "out", "catalog.json")

	if err := WriteFile(path, cat); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFile(path, ReadOptions{ValidateSchema: true})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, cat) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, cat)
	}
}

func TestReadWriteFileYAML(t *testing.T) {
	cat := sampleCatalog()
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	if err := WriteFile(path, cat); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFile(path, ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, cat) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, cat)
	}
}

func TestReadFileUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadFile(path, ReadOptions{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("got %v, want ErrUnknownFormat", err)
	}
}

func TestWriteFileNilCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := WriteFile(path, nil); !errors.Is(err, ErrNilCatalog) {
		t.Fatalf("got %v, want ErrNilCatalog", err)
	}
}

func TestReadFileSchemaRejection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	doc := `{"catalog": {"metadata": {"title": "t"}}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := ReadFile(path, ReadOptions{ValidateSchema: true}); !errors.Is(err, schema.ErrDocumentInvalid) {
		t.Fatalf("got %v, want ErrDocumentInvalid", err)
	}
	// without the schema gate the permissive decoder accepts it
	if _, err := ReadFile(path, ReadOptions{}); err != nil {
		t.Fatalf("lenient read failed: %v", err)
	}
}

func TestReadFileMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("profile: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadFile(path, ReadOptions{}); err == nil {
		t.Fatal("document without a catalog key must fail")
	}
}
