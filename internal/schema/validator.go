// Package schema holds the strict wire-shape contracts for JSON-based
// document formats. Parser detection is a cheap syntactic sniff; these
// schemas are the authoritative check used before accepting uploaded
// content for translation.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed editorjs.schema.json
var editorJSSchemaJSON string

//go:embed grapejs.schema.json
var grapeJSSchemaJSON string

var (
	compileOnce        sync.Once
	editorJSSchema     *jsonschema.Schema
	grapeJSSchema      *jsonschema.Schema
	compiledSchemasErr error
)

// ValidateEditorJS checks a payload against the Editor.js document schema.
func ValidateEditorJS(payload []byte) error {
	return validate(payload, "editorjs.schema.json")
}

// ValidateGrapeJS checks a payload against the GrapeJS component tree schema.
func ValidateGrapeJS(payload []byte) error {
	return validate(payload, "grapejs.schema.json")
}

func validate(payload []byte, name string) error {
	if err := loadSchemas(); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	value, err := decodeStrictJSON(payload)
	if err != nil {
		return fmt.Errorf("decode payload JSON: %w", err)
	}

	schema := editorJSSchema
	if name == "grapejs.schema.json" {
		schema = grapeJSSchema
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func loadSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("editorjs.schema.json", strings.NewReader(editorJSSchemaJSON)); err != nil {
			compiledSchemasErr = fmt.Errorf("add editorjs schema: %w", err)
			return
		}
		if err := compiler.AddResource("grapejs.schema.json", strings.NewReader(grapeJSSchemaJSON)); err != nil {
			compiledSchemasErr = fmt.Errorf("add grapejs schema: %w", err)
			return
		}

		editorJSSchema, compiledSchemasErr = compiler.Compile("editorjs.schema.json")
		if compiledSchemasErr != nil {
			return
		}
		grapeJSSchema, compiledSchemasErr = compiler.Compile("grapejs.schema.json")
	})
	return compiledSchemasErr
}

// decodeStrictJSON rejects trailing content after the first JSON value.
func decodeStrictJSON(payload []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if err := checkTrailing(dec); err != nil {
		return nil, err
	}
	return value, nil
}

func checkTrailing(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected trailing JSON content")
	}
	return nil
}
