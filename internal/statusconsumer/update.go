package statusconsumer

import (
	"encoding/json"
	"fmt"
)

// unknownValue stands in for an absent orderId or status key.
const unknownValue = "UNKNOWN"

// Update is one parsed warehouse status message. Detail keeps the full
// payload, including free-form keys like trackingNumber.
type Update struct {
	OrderID string
	Status  string
	Detail  map[string]any
}

// parseUpdate decodes a status payload. Only JSON objects are accepted;
// anything else is a malformed message for disposition purposes.
func parseUpdate(body []byte) (Update, error) {
	var detail map[string]any
	if err := json.Unmarshal(body, &detail); err != nil {
		return Update{}, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	if detail == nil {
		return Update{}, fmt.Errorf("payload is not a JSON object: null")
	}

	return Update{
		OrderID: stringOr(detail, "orderId", unknownValue),
		Status:  stringOr(detail, "status", unknownValue),
		Detail:  detail,
	}, nil
}

func stringOr(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
