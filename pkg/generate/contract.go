package generate

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-xzqh/pkg/form"
)

// OperationID identifies the generation operation inside the contract.
const OperationID = "generatePanel"

//go:embed contract.yaml
var embeddedContract []byte

var defaultContract = sync.OnceValues(func() (*Contract, error) {
	return LoadContract(context.Background(), embeddedContract)
})

// Contract is the resolved description of the generation endpoint.
type Contract struct {
	Method  string
	Path    string
	request *openapi3.Schema
}

// DefaultContract returns the contract embedded in the package.
func DefaultContract() (*Contract, error) {
	return defaultContract()
}

// EmbeddedContract exposes the raw OpenAPI document so hosts can publish it.
func EmbeddedContract() []byte {
	return append([]byte(nil), embeddedContract...)
}

// LoadContract parses an OpenAPI document and extracts the generation
// operation and its JSON request schema.
func LoadContract(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("generate: contract document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("generate: load contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("generate: validate contract: %w", err)
	}
	if doc.Paths == nil {
		return nil, errors.New("generate: contract has no paths")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID != OperationID {
				continue
			}
			schema, err := requestSchema(op)
			if err != nil {
				return nil, err
			}
			return &Contract{Method: method, Path: path, request: schema}, nil
		}
	}
	return nil, fmt.Errorf("generate: operation %q not found in contract", OperationID)
}

// ValidateRequest checks req against the request schema. It returns a
// *ContractError describing the first violation.
func (c *Contract) ValidateRequest(req form.Request) error {
	if c == nil || c.request == nil {
		return nil
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("generate: encode request: %w", err)
	}
	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return fmt.Errorf("generate: decode request: %w", err)
	}
	if err := c.request.VisitJSON(value); err != nil {
		return &ContractError{Err: err}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) (*openapi3.Schema, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, errors.New("generate: contract operation has no request body")
	}
	mt, ok := op.RequestBody.Value.Content["application/json"]
	if !ok || mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, errors.New("generate: contract request body is not application/json")
	}
	return mt.Schema.Value, nil
}

func (c *Contract) method() string {
	if c == nil || c.Method == "" {
		return http.MethodPost
	}
	return c.Method
}
