package jsonfile

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// GenerateSchema returns the JSON Schema of the given record type.
func GenerateSchema(value any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflector.Reflect(reflect.New(t).Interface())
}

// Schema returns the indented JSON Schema of the output format.
func Schema(format Format) ([]byte, error) {
	var s *jsonschema.Schema
	if format == FormatLines {
		s = &jsonschema.Schema{
			Version: jsonschema.Version,
			OneOf: []*jsonschema.Schema{
				GenerateSchema(NodeLine{}),
				GenerateSchema(RelationshipLine{}),
			},
		}
	} else {
		s = GenerateSchema(GroupedDocument{})
	}
	return json.MarshalIndent(s, "", "  ")
}
