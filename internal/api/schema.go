package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names for backend response payloads.
const (
	schemaChatReply        = "chat-reply"
	schemaNextQuestion     = "next-question"
	schemaPhaseInfoList    = "phase-info-list"
	schemaQuestionList     = "question-list"
	schemaProgress         = "progress"
	schemaScore            = "score"
	schemaGapAnalysis      = "gap-analysis"
	schemaComplianceMatrix = "compliance-matrix"
	schemaAuthResult       = "auth-result"
	schemaVersionInfo      = "version-info"
)

// definitions holds the JSON Schema for each validated response. The shapes
// mirror the wire types in types.go; fields the client never reads are left
// unconstrained so backend additions don't break older clients.
var definitions = map[string]map[string]any{
	schemaChatReply: {
		"type":     "object",
		"required": []any{"message"},
		"properties": map[string]any{
			"message": map[string]any{"type": "string"},
		},
	},
	schemaNextQuestion: {
		"type":     "object",
		"required": []any{"phaseComplete"},
		"properties": map[string]any{
			"phaseComplete": map[string]any{"type": "boolean"},
			"remaining":     map[string]any{"type": "integer", "minimum": 0},
			"question": map[string]any{
				"type":     []any{"object", "null"},
				"required": []any{"id", "text"},
				"properties": map[string]any{
					"id":       map[string]any{"type": "string", "minLength": 1},
					"text":     map[string]any{"type": "string", "minLength": 1},
					"category": map[string]any{"type": "string"},
				},
			},
		},
	},
	schemaPhaseInfoList: {
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"phase", "questionCount"},
			"properties": map[string]any{
				"phase":         map[string]any{"enum": []any{"quick", "detailed", "followup"}},
				"questionCount": map[string]any{"type": "integer", "minimum": 0},
			},
		},
	},
	schemaQuestionList: {
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id", "text"},
			"properties": map[string]any{
				"id":   map[string]any{"type": "string", "minLength": 1},
				"text": map[string]any{"type": "string", "minLength": 1},
			},
		},
	},
	schemaProgress: {
		"type":     "object",
		"required": []any{"percentage", "answeredCount", "totalCount"},
		"properties": map[string]any{
			"percentage":    map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"answeredCount": map[string]any{"type": "integer", "minimum": 0},
			"totalCount":    map[string]any{"type": "integer", "minimum": 0},
		},
	},
	schemaScore: {
		"type":     "object",
		"required": []any{"overallScore", "categoryScores"},
		"properties": map[string]any{
			"overallScore": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"categoryScores": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"category", "percentage"},
					"properties": map[string]any{
						"category":   map[string]any{"type": "string"},
						"percentage": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
					},
				},
			},
		},
	},
	schemaGapAnalysis: {
		"type":     "object",
		"required": []any{"ifrsStandard", "items"},
		"properties": map[string]any{
			"ifrsStandard": map[string]any{"enum": []any{"S1", "S2"}},
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"requirement", "severity", "status"},
					"properties": map[string]any{
						"requirement": map[string]any{"type": "string"},
						"severity":    map[string]any{"type": "string"},
						"status":      map[string]any{"type": "string"},
					},
				},
			},
		},
	},
	schemaComplianceMatrix: {
		"type":     "object",
		"required": []any{"ifrsStandard", "rows"},
		"properties": map[string]any{
			"ifrsStandard": map[string]any{"enum": []any{"S1", "S2"}},
			"rows": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"requirement", "status"},
					"properties": map[string]any{
						"requirement": map[string]any{"type": "string"},
						"status":      map[string]any{"type": "string"},
						"coverage":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					},
				},
			},
		},
	},
	schemaAuthResult: {
		"type":     "object",
		"required": []any{"accessToken", "refreshToken", "user"},
		"properties": map[string]any{
			"accessToken":  map[string]any{"type": "string", "minLength": 1},
			"refreshToken": map[string]any{"type": "string", "minLength": 1},
			"user": map[string]any{
				"type":     "object",
				"required": []any{"id", "email"},
				"properties": map[string]any{
					"id":    map[string]any{"type": "string", "minLength": 1},
					"email": map[string]any{"type": "string", "minLength": 3},
				},
			},
		},
	},
	schemaVersionInfo: {
		"type":     "object",
		"required": []any{"minClientVersion"},
		"properties": map[string]any{
			"minClientVersion": map[string]any{"type": "string"},
			"latestVersion":    map[string]any{"type": "string"},
		},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validatePayload validates raw JSON against the named schema. Returns
// *ErrInvalidResponse when the payload is not valid JSON or does not
// conform, so malformed server responses fail fast with a typed error.
func validatePayload(name string, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(name)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", name, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %q: %w", name, err)}
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := definitions[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	// The jsonschema library expects a parsed JSON value, not Go maps with
	// typed values. Round-trip through JSON to normalize.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
