package importer

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed list.schema.json
var listSchemaJSON []byte

const listSchemaURL = "schema://word-list.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func listSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(listSchemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse list schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(listSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add list schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(listSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateDocument checks raw JSON against the word list schema.
func validateDocument(raw []byte) error {
	schema, err := listSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}
