package storage

import (
	"encoding/json"
	"fmt"
)

// EncodeAuditAttributes serializes audit attributes as a JSON object.
func EncodeAuditAttributes(attributes map[string]string) (string, error) {
	if len(attributes) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(attributes)
	if err != nil {
		return "", fmt.Errorf("encode audit attributes: %w", err)
	}
	return string(data), nil
}

// DecodeAuditAttributes parses a stored attribute object.
func DecodeAuditAttributes(raw string) (map[string]string, error) {
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var attributes map[string]string
	if err := json.Unmarshal([]byte(raw), &attributes); err != nil {
		return nil, fmt.Errorf("decode audit attributes: %w", err)
	}
	return attributes, nil
}
