package purchaseorders

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/po-tracker/constants"
)

// RegisterSchema returns the JSON-Schema (draft 2020-12 subset) a sanitized
// register payload must satisfy.
func RegisterSchema() map[string]any {
	str := func() map[string]any { return map[string]any{"type": "string"} }
	product := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":      map[string]any{"type": "string", "minLength": 1},
			"quantity":  str(),
			"unitPrice": str(),
			"amount":    str(),
		},
		"required":             []string{"name", "quantity", "unitPrice", "amount"},
		"additionalProperties": false,
	}
	props := map[string]any{
		"customer":             map[string]any{"type": "string", "minLength": 1},
		"poNumber":             map[string]any{"type": "string", "minLength": 1},
		"currency":             map[string]any{"type": "string", "pattern": `^[A-Z]{3}$`},
		"totalAmount":          str(),
		"paymentTerms":         str(),
		"terms":                str(),
		"destination":          str(),
		"products":             map[string]any{"type": "array", "minItems": 1, "items": product},
		"shipment_arrangement": str(),
		"po_acquisition_date":  str(),
		"organization":         str(),
		"invoice_number":       str(),
		"payment_status":       map[string]any{"type": "string", "enum": constants.PaymentStatuses},
		"booking_number":       str(),
		"memo":                 str(),
		"ocrId":                map[string]any{"type": "string", "pattern": `^[0-9a-fA-F-]{36}$`},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"customer", "poNumber", "products"},
	}
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("register.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("register.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateAgainst(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
