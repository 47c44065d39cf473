package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPayload is returned when no candidate object in a webhook
// notification yields both a board id and an item id.
var ErrMalformedPayload = errors.New("webhook payload must include boardId and pulseId (or itemId)")

// ItemReference identifies one item on one board. Both ids are positive.
type ItemReference struct {
	BoardID int64
	ItemID  int64
}

// ParseWebhookPayload extracts an ItemReference from an arbitrarily-shaped
// webhook notification. Monday automations and raw webhook deliveries differ
// in key casing and nesting, so the ids are probed at the top level and under
// "payload" and "event", with camelCase and snake_case aliases.
func ParseWebhookPayload(body map[string]any) (ItemReference, error) {
	for _, candidate := range []map[string]any{body, nestedObject(body, "payload"), nestedObject(body, "event")} {
		if candidate == nil {
			continue
		}
		boardID, okBoard := firstID(candidate, "boardId", "board_id")
		itemID, okItem := firstID(candidate, "pulseId", "pulse_id", "itemId", "item_id")
		if okBoard && okItem {
			return ItemReference{BoardID: boardID, ItemID: itemID}, nil
		}
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	return ItemReference{}, fmt.Errorf("%w; received keys: %v", ErrMalformedPayload, keys)
}

func nestedObject(body map[string]any, key string) map[string]any {
	obj, _ := body[key].(map[string]any)
	return obj
}

// firstID returns the first key that holds a usable positive id.
func firstID(obj map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		if id, ok := coerceID(obj[key]); ok {
			return id, true
		}
	}
	return 0, false
}

// coerceID converts a JSON value to a positive int64 id. Monday sends ids as
// numbers or as decimal strings depending on the delivery path.
func coerceID(v any) (int64, bool) {
	switch val := v.(type) {
	case float64:
		id := int64(val)
		return id, id > 0
	case json.Number:
		id, err := val.Int64()
		return id, err == nil && id > 0
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return id, err == nil && id > 0
	case int:
		return int64(val), val > 0
	case int64:
		return val, val > 0
	default:
		return 0, false
	}
}
