// Package validation checks a parsed project configuration against an
// embedded JSON Schema before the typed config loader touches it,
// catching structural mistakes (a value of the wrong type) with one
// message instead of a downstream TOML-decode error. The schema declares
// no required keys and allows unknown ones.
package validation

import (
	"embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed *.json
var schemaFS embed.FS

const projectSchema = "project.json"

// Error collects every schema violation found in one document.
type Error struct {
	Errors []string
}

func (e Error) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("config shape: %s", e.Errors[0])
	}
	return fmt.Sprintf("config shape: %s", strings.Join(e.Errors, "; "))
}

// Parse decodes raw TOML into a generic document, without checking it
// against the schema. Callers that need to distinguish a syntax error
// from a shape error (internal/config does, reporting ConfigSyntax vs
// ConfigShape) call this before Validate instead of using ValidateTOML
// directly.
func Parse(raw []byte) (interface{}, error) {
	var doc interface{}
	if _, err := toml.Decode(string(raw), &doc); err != nil {
		return nil, fmt.Errorf("config: toml parse error: %w", err)
	}
	return doc, nil
}

// ValidateTOML parses raw TOML into a generic document and validates it
// against the embedded project schema, for callers that don't need to
// distinguish a parse failure from a shape failure.
func ValidateTOML(raw []byte) error {
	doc, err := Parse(raw)
	if err != nil {
		return err
	}
	return Validate(doc)
}

// Validate checks an already-parsed TOML document against the embedded
// project schema.
func Validate(doc interface{}) error {
	schemaData, err := schemaFS.ReadFile(projectSchema)
	if err != nil {
		return fmt.Errorf("validation: loading %s: %w", projectSchema, err)
	}

	schema, err := jsonschema.CompileString(projectSchema, string(schemaData))
	if err != nil {
		return fmt.Errorf("validation: compiling %s: %w", projectSchema, err)
	}

	if err := schema.Validate(normalizeKeys(doc)); err != nil {
		var messages []string
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			for _, cause := range ve.Causes {
				messages = append(messages, cause.Message)
			}
			if len(messages) == 0 {
				messages = append(messages, ve.Message)
			}
		} else {
			messages = append(messages, err.Error())
		}
		return Error{Errors: messages}
	}
	return nil
}

// normalizeKeys converts the map[string]interface{} tree BurntSushi/toml
// produces into the plain maps jsonschema.Validate expects, recursing
// through nested tables and arrays of tables.
func normalizeKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalizeKeys(val)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeKeys(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeKeys(val)
		}
		return out
	default:
		return v
	}
}
