// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package requirements

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/catalog.schema.json
var catalogSchemaJSON []byte

const catalogSchemaURL = "https://yatm.schemas.local/catalog.schema.json"

var (
	catalogSchemaOnce sync.Once
	catalogSchema     *jsonschema.Schema
	catalogSchemaErr  error
)

func compiledCatalogSchema() (*jsonschema.Schema, error) {
	catalogSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(catalogSchemaURL, bytes.NewReader(catalogSchemaJSON)); err != nil {
			catalogSchemaErr = fmt.Errorf("catalog schema load failed: %w", err)
			return
		}
		catalogSchema, catalogSchemaErr = c.Compile(catalogSchemaURL)
	})
	return catalogSchema, catalogSchemaErr
}

// ValidateFile checks a catalog file against the embedded JSON schema.
// Returns nil if the file doesn't exist (missing files are not schema
// errors).
func ValidateFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	if err := ValidateBytes(data); err != nil {
		return []string{fmt.Sprintf("%s: %v", path, err)}
	}
	return nil
}

// ValidateBytes checks YAML catalog content against the embedded schema.
func ValidateBytes(data []byte) error {
	schema, err := compiledCatalogSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	// Round-trip through encoding/json so the validator sees the same
	// value types it would get from a JSON document.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting yaml to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("converting yaml to json: %w", err)
	}
	return schema.Validate(v)
}
