// Package api carries the OpenAPI description of the HTTP surface. The
// document is embedded so the running service can serve its own contract.
package api

import (
	"context"
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yml
var document []byte

// Document returns the raw OpenAPI document.
func Document() []byte {
	return document
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, err
	}

	if err = doc.Validate(ctx); err != nil {
		return nil, err
	}

	return doc, nil
}
