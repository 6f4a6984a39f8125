package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrDocumentInvalid = errors.New("schema: catalog document validation failed")

// catalogSchema is the structural contract a catalog document must satisfy
// before indexing. It deliberately checks shape only: ids and titles where
// required, arrays where arrays belong. The full upstream schema is an
// external versioned contract; this subset catches the corruption that would
// otherwise surface as index invariant failures.
const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["catalog"],
  "properties": {
    "catalog": {
      "type": "object",
      "required": ["metadata"],
      "properties": {
        "uuid": {"type": "string"},
        "metadata": {
          "type": "object",
          "required": ["title", "version"],
          "properties": {
            "title": {"type": "string"},
            "version": {"type": "string"},
            "last-modified": {"type": "string"}
          }
        },
        "groups": {"type": "array", "items": {"$ref": "#/$defs/group"}},
        "controls": {"type": "array", "items": {"$ref": "#/$defs/control"}}
      }
    }
  },
  "$defs": {
    "group": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id": {"type": "string"},
        "class": {"type": "string"},
        "title": {"type": "string"},
        "groups": {"type": "array", "items": {"$ref": "#/$defs/group"}},
        "controls": {"type": "array", "items": {"$ref": "#/$defs/control"}}
      }
    },
    "control": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id": {"type": "string"},
        "class": {"type": "string"},
        "title": {"type": "string"},
        "params": {"type": "array", "items": {"$ref": "#/$defs/param"}},
        "parts": {"type": "array", "items": {"$ref": "#/$defs/part"}},
        "props": {"type": "array", "items": {"$ref": "#/$defs/prop"}}
      }
    },
    "param": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string"},
        "class": {"type": "string"},
        "label": {"type": "string"},
        "values": {"type": "array", "items": {"type": "string"}},
        "choices": {"type": "array", "items": {"type": "string"}}
      }
    },
    "part": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "id": {"type": "string"},
        "name": {"type": "string"},
        "title": {"type": "string"},
        "prose": {"type": "string"},
        "parts": {"type": "array", "items": {"$ref": "#/$defs/part"}},
        "props": {"type": "array", "items": {"$ref": "#/$defs/prop"}}
      }
    },
    "prop": {
      "type": "object",
      "required": ["name", "value"],
      "properties": {
        "name": {"type": "string"},
        "value": {"type": "string"},
        "class": {"type": "string"}
      }
    }
  }
}`

var compiled = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("catalog.schema.json", bytes.NewReader([]byte(catalogSchema))); err != nil {
		panic(fmt.Sprintf("schema: add resource: %v", err))
	}
	sch, err := compiler.Compile("catalog.schema.json")
	if err != nil {
		panic(fmt.Sprintf("schema: compile: %v", err))
	}
	return sch
}

// ValidateCatalogDocument checks raw catalog JSON against the structural
// contract. Returned errors wrap ErrDocumentInvalid with the failing
// locations collected from the validator.
func ValidateCatalogDocument(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	if err := compiled.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %s", ErrDocumentInvalid, formatIssues(validationErr))
		}
		return fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	return nil
}

func formatIssues(err *jsonschema.ValidationError) string {
	var parts []string
	var walk func(node *jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "#"
			}
			parts = append(parts, fmt.Sprintf("%s: %s", location, node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return strings.Join(parts, "; ")
}
