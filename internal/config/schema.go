// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id stamped into the generated schema.
const SchemaID = "https://robotframework.dev/schemas/config.schema.json"

// GenerateSchema produces the JSON Schema for config files.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Config{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Robot Engine Configuration"
	schema.Description = "Schema for engine configuration YAML files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("config").Wrapf(err, "marshalling schema failed")
	}
	return data, nil
}

// compiledSchema compiles the generated schema once per process.
var compiledSchema = sync.OnceValues(func() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, oops.In("config").Wrapf(err, "parsing schema JSON failed")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, oops.In("config").Wrapf(err, "adding schema resource failed")
	}
	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, oops.In("config").Wrapf(err, "compiling schema failed")
	}
	return sch, nil
})

// ValidateSchema checks raw YAML config data against the schema. It catches
// structural mistakes, unknown enum values included, before Load runs.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.In("config").Code("CONFIG_INVALID").Errorf("config data is empty")
	}

	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return oops.In("config").Code("CONFIG_INVALID").Wrapf(err, "invalid YAML")
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	if err := sch.Validate(toJSONTypes(parsed)); err != nil {
		return oops.In("config").Code("CONFIG_INVALID").Wrapf(err, "schema validation failed")
	}
	return nil
}

// toJSONTypes normalizes YAML-decoded values into the shapes the schema
// validator expects.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJSONTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJSONTypes(item)
		}
		return out
	default:
		return val
	}
}
