package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
)

// RuleContext is the comparison context sent to the gateway: title and
// content pairs only, so internal fields (IDs, tags) never leave the
// hub and the payload stays bounded.
type RuleContext struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ExtractedRule is one regulation as returned by the gateway, before
// the hub mints an ID for it.
type ExtractedRule struct {
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	Summary     string   `json:"summary" validate:"required"`
	Explanation string   `json:"explanation" validate:"required"`
	Importance  string   `json:"importance" validate:"required"`
	Tags        []string `json:"tags"`
}

// ChangeEntry mirrors datatypes.ChangeEntry on the wire, with schema
// validation attached.
type ChangeEntry struct {
	Type        string `json:"type" validate:"required,oneof=added removed modified"`
	ItemTitle   string `json:"itemTitle" validate:"required"`
	Description string `json:"description"`
}

// UpdateSummary is the gateway's structured description of what
// changed relative to the comparison context and why.
type UpdateSummary struct {
	Reason  string        `json:"reason"`
	Changes []ChangeEntry `json:"changes" validate:"dive"`
}

// Result is a full gateway response: a complete replacement regulation
// set (never a delta) plus the change summary. An empty Regulations
// slice is valid and means the document defines no rules.
type Result struct {
	Regulations   []ExtractedRule `json:"regulations" validate:"dive"`
	UpdateSummary UpdateSummary   `json:"updateSummary"`
}

// Analyzer is the document analysis gateway. Implementations send the
// raw document plus the comparison context to an external AI backend
// and return the structured result.
//
// Any transport failure, unreadable document, or response that does
// not match the schema is one fatal error for the invocation; callers
// must not persist anything on error.
type Analyzer interface {
	Analyze(ctx context.Context, document []byte, mimeType string, current []RuleContext) (*Result, error)
}

var resultValidate = validator.New()

// parseResult decodes and validates a raw gateway response body.
// Markdown code fences are stripped first because models wrap JSON in
// them even when asked not to. Unrecognized categories clamp to Geral;
// every other schema violation fails the whole response.
func parseResult(raw string) (*Result, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("gateway response is not valid JSON: %w", err)
	}
	if err := resultValidate.Struct(&result); err != nil {
		return nil, fmt.Errorf("gateway response failed schema validation: %w", err)
	}
	for i := range result.Regulations {
		result.Regulations[i].Category = string(datatypes.NormalizeCategory(result.Regulations[i].Category))
		if result.Regulations[i].Tags == nil {
			result.Regulations[i].Tags = []string{}
		}
	}
	return &result, nil
}
