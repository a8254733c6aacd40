// Package templates holds request templates shipped with the service.
package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

// TodayPlaceholder marks string values that resolve to the current date.
const TodayPlaceholder = "@today"

//go:embed example_payload.json
var examplePayload []byte

// ExamplePayload returns the example request body with every TodayPlaceholder
// replaced by today.
func ExamplePayload(today domain.Date) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(examplePayload, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode example payload: %w", err)
	}

	resolved, _ := ReplaceToday(doc, today).(map[string]any)
	return resolved, nil
}

// ExamplePayloadJSON is ExamplePayload encoded as JSON.
func ExamplePayloadJSON(today domain.Date) ([]byte, error) {
	doc, err := ExamplePayload(today)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// LoadExamplePayload decodes the example into a request payload.
func LoadExamplePayload(today domain.Date) (*domain.Payload, error) {
	data, err := ExamplePayloadJSON(today)
	if err != nil {
		return nil, err
	}

	var payload domain.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode example payload: %w", err)
	}
	return &payload, nil
}

// ReplaceToday walks a decoded JSON document and substitutes TodayPlaceholder
// at any depth. Maps are updated in place.
func ReplaceToday(v any, today domain.Date) any {
	switch node := v.(type) {
	case map[string]any:
		for key, child := range node {
			node[key] = ReplaceToday(child, today)
		}
		return node
	case []any:
		for i, child := range node {
			node[i] = ReplaceToday(child, today)
		}
		return node
	case string:
		if node == TodayPlaceholder {
			return today.String()
		}
		return node
	default:
		return v
	}
}
