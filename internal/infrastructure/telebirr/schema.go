package telebirr

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	SchemaFabricToken = "FabricTokenResponse"
	SchemaAuthToken   = "AuthTokenResponse"
	SchemaPreOrder    = "PreOrderResponse"
)

//go:embed gateway.yaml
var gatewaySpec []byte

// ResponseValidator checks gateway bodies against the embedded schemas before
// any field is trusted.
type ResponseValidator struct {
	schemas openapi3.Schemas
}

func NewResponseValidator() (*ResponseValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(gatewaySpec)
	if err != nil {
		return nil, fmt.Errorf("load gateway schema: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate gateway schema: %w", err)
	}
	return &ResponseValidator{schemas: doc.Components.Schemas}, nil
}

// Validate decodes body and checks it against the named schema.
func (v *ResponseValidator) Validate(schemaName string, body []byte) error {
	ref, ok := v.schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("unknown schema %s", schemaName)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if err := ref.Value.VisitJSON(value); err != nil {
		return fmt.Errorf("response does not match %s: %w", schemaName, err)
	}
	return nil
}
