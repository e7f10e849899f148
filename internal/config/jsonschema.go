package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed workload.schema.json
var workloadSchema string

const schemaURL = "workload.schema.json"

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(workloadSchema)); err != nil {
		panic(fmt.Sprintf("invalid workload schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// ValidateSchema checks the raw document against the workload JSON schema.
// YAML documents are converted to their JSON form first.
func ValidateSchema(data []byte, path string) error {
	doc, err := toJSONDocument(data, path)
	if err != nil {
		return err
	}

	if err := compiledSchema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return schemaErrors(verr)
		}
		return err
	}
	return nil
}

// toJSONDocument decodes data into the generic form jsonschema expects
// (the output of encoding/json).
func toJSONDocument(data []byte, path string) (interface{}, error) {
	raw := data

	if strings.ToLower(filepath.Ext(path)) != ".json" {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}

		var err error
		raw, err = json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("config is not representable as JSON: %w", err)
		}
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return doc, nil
}

// schemaErrors flattens a jsonschema error tree into ValidationErrors.
func schemaErrors(err *jsonschema.ValidationError) *ValidationErrors {
	errs := &ValidationErrors{}
	collectSchemaErrors(err, errs)
	if !errs.HasErrors() {
		errs.Add("", err.Error())
	}
	return errs
}

func collectSchemaErrors(err *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(err.Causes) == 0 && err.Message != "" {
		field := strings.TrimPrefix(strings.ReplaceAll(err.InstanceLocation, "/", "."), ".")
		errs.Add(field, err.Message)
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}
