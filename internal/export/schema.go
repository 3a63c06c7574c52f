package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/smart-rename/constants"
	"github.com/joseph-ayodele/smart-rename/internal/common"
	"github.com/joseph-ayodele/smart-rename/internal/entity"
	"github.com/joseph-ayodele/smart-rename/internal/extract"
)

// ReportJSONSchema returns the JSON Schema of Report as a generic map.
func ReportJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"index":          map[string]any{"type": "integer", "minimum": 0},
			"source_path":    map[string]any{"type": "string", "minLength": 1},
			"original_name":  map[string]any{"type": "string", "minLength": 1},
			"suggested_name": map[string]any{"type": "string", "pattern": `(?i)\.pdf$`},
			"status": map[string]any{"type": "string", "enum": []string{
				string(constants.StatusError), string(constants.StatusNoChange), string(constants.StatusRenameSuggested),
			}},
			"date":    map[string]any{"type": "string", "pattern": `^(\d{4}-\d{2}-\d{2})?$`},
			"sender":  map[string]any{"type": "string", "maxLength": 30},
			"subject": map[string]any{"type": "string", "maxLength": 50},
			"method":  map[string]any{"type": "string"},
			"cached":  map[string]any{"type": "boolean"},
			"failure_kind": map[string]any{"type": "string", "enum": []string{
				string(extract.FailureToolUnavailable), string(extract.FailureExtractionFailed),
			}},
			"error": map[string]any{"type": "string"},
		},
		"required": []string{"index", "source_path", "original_name", "suggested_name", "status", "date", "sender", "subject", "cached"},
	}
	renameItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"source_path":      map[string]any{"type": "string"},
			"destination_path": map[string]any{"type": "string"},
			"ok":               map[string]any{"type": "boolean"},
			"reason": map[string]any{"type": "string", "enum": []string{
				string(entity.ReasonInvalidTarget), string(entity.ReasonCollision),
				string(entity.ReasonPrimitive), string(entity.ReasonCancelled),
			}},
			"error": map[string]any{"type": "string"},
		},
		"required": []string{"source_path", "destination_path", "ok"},
	}
	count := map[string]any{"type": "integer", "minimum": 0}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"batch_id":    map[string]any{"type": "string", "minLength": 1},
			"created_at":  map[string]any{"type": "string", "minLength": 1},
			"total":       count,
			"errors":      count,
			"no_change":   count,
			"renamable":   count,
			"suggestions": map[string]any{"type": "array", "items": item},
			"renames":     map[string]any{"type": "array", "items": renameItem},
		},
		"required": []string{"batch_id", "created_at", "total", "suggestions"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: report does not match schema: %v", common.ErrValidation, err)
	}
	return nil
}
