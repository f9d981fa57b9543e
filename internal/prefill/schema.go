package prefill

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/paperdesk/prefill/internal/common"
)

// BuildSubmissionSchema returns the JSON-Schema (draft 2020-12 subset) a
// finalized submission must satisfy before it is persisted. Prefill records
// are allowed to be arbitrarily empty; finalized ones need the fields the
// review form makes mandatory.
func BuildSubmissionSchema() map[string]any {
	stringList := func() map[string]any {
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		}
	}

	props := map[string]any{
		"title":            map[string]any{"type": "string", "minLength": 1},
		"authors":          map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string", "minLength": 1}},
		"abstract":         map[string]any{"type": "string"},
		"keywords":         stringList(),
		"affiliations":     stringList(),
		"emails":           stringList(),
		"publication_date": map[string]any{"type": "string"},
		"body_preview":     map[string]any{"type": "string"},

		"transaction_id": map[string]any{"type": "string", "minLength": 8, "pattern": `^[A-Za-z0-9]+$`},
		"amount":         map[string]any{"type": "string", "pattern": `^\d+(\.\d{1,2})?$`},
		"payment_date":   map[string]any{"type": "string"},
		"payment_time":   map[string]any{"type": "string"},
		"payment_method": map[string]any{"type": "string"},
		"payment_status": map[string]any{"type": "string"},
		"upi_id":         map[string]any{"type": "string"},
		"bank_name":      map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"title", "authors", "transaction_id", "amount"},
	}
}

// ValidateSubmissionJSON validates raw submission JSON against the schema.
func ValidateSubmissionJSON(data []byte) error {
	b, err := json.Marshal(BuildSubmissionSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("submission.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("submission.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal submission: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return nil
}

// ValidateSubmission marshals the record and validates it.
func ValidateSubmission(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	return ValidateSubmissionJSON(data)
}
