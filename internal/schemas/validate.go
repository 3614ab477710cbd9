// Package schemas provides JSON Schema validation for portfolio input and run result output.
package schemas

import (
	"embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFS embed.FS

// Schema names embedded in this package
const (
	PortfolioSchema = "portfolio.schema.json"
	RunResultSchema = "run_result.schema.json"
)

// Load returns the content of an embedded schema
func Load(name string) (string, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return "", &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}
	return string(data), nil
}

// ValidatePortfolio checks the document-level shape of a portfolio, given as JSON
func ValidatePortfolio(data []byte) error {
	return validateEmbedded(PortfolioSchema, data)
}

// ValidateRunResult checks a serialized run result
func ValidateRunResult(data []byte) error {
	return validateEmbedded(RunResultSchema, data)
}

func validateEmbedded(name string, data []byte) error {
	schema, err := Load(name)
	if err != nil {
		return err
	}
	return validate(name, gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(data))
}

func validate(path string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    path,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
