package label

import (
	"encoding/json"
	"strings"

	"github.com/kvasey/monday-label-sync/internal/models"
	"go.uber.org/zap"
)

// Placeholders substituted when a field cannot be extracted. Label fields are
// never left empty: the renderer always receives three populated strings.
const (
	NoClientName      = "(No Client Name)"
	NoItemDescription = "(No Item Description)"
	NoPONumber        = "(No PO#)"
)

// Column matching is by known column id (for lookup columns, whose titles
// users rename freely) or by title. Titles are free text on Monday, so the
// sets carry the casings seen in the wild.
var (
	clientNameColumnIDs = map[string]bool{
		"lookup_mkv6padj": true,
	}
	clientNameTitles = map[string]bool{
		"Client Name": true, "Client": true, "client name": true, "client": true,
	}
	poTitles = map[string]bool{
		"PO#": true, "PO Number": true, "PO": true, "po#": true, "po number": true,
	}
)

// Data is the extracted content of one shipping label.
type Data struct {
	ClientName      string
	ItemDescription string
	PONumber        string
}

// Extract reduces an item's raw column values to the three label fields.
// It is pure and total: any item, including one with no columns, yields a
// fully-populated Data (placeholders substitute for anything missing).
func Extract(item *models.Item) Data {
	var clientName, poNumber string
	clientMatched, poMatched := false, false

	for _, col := range item.ColumnValues {
		if !clientMatched && isClientNameColumn(col) {
			clientMatched = true
			clientName = clientNameFromColumn(col)
		}
		if !poMatched && poTitles[strings.TrimSpace(col.Title())] {
			poMatched = true
			// PO columns are plain text; the number passes through as-is,
			// even when Monday stores it as a numeric column.
			poNumber = strings.TrimSpace(col.Text)
		}
	}

	data := Data{
		ClientName:      clientName,
		ItemDescription: strings.TrimSpace(item.Name),
		PONumber:        poNumber,
	}
	if data.ClientName == "" {
		data.ClientName = NoClientName
	}
	if data.ItemDescription == "" {
		data.ItemDescription = NoItemDescription
	}
	if data.PONumber == "" {
		data.PONumber = NoPONumber
	}
	return data
}

func isClientNameColumn(col models.ColumnValue) bool {
	if clientNameColumnIDs[strings.TrimSpace(col.ID)] {
		return true
	}
	return clientNameTitles[strings.TrimSpace(col.Title())]
}

// clientNameFromColumn walks the fallback chain for the matched column:
// plain text, then the mirror's display value (which can differ from the
// linked item's own title), then the first linked item's name, then a
// label-style JSON value. A malformed JSON value degrades to "" rather than
// failing extraction.
func clientNameFromColumn(col models.ColumnValue) string {
	if text := strings.TrimSpace(col.Text); text != "" {
		return text
	}
	if display := strings.TrimSpace(col.DisplayValue); display != "" {
		zap.L().Debug("Client name taken from mirror display value", zap.String("columnID", col.ID))
		return display
	}
	if len(col.MirroredItems) > 0 {
		if name := strings.TrimSpace(col.MirroredItems[0].LinkedItem.Name); name != "" {
			zap.L().Debug("Client name taken from linked item name", zap.String("columnID", col.ID))
			return name
		}
	}
	if name := clientNameFromRawValue(col.Value); name != "" {
		zap.L().Debug("Client name taken from raw label value", zap.String("columnID", col.ID))
		return name
	}
	zap.L().Debug("Client name fallback chain exhausted", zap.String("columnID", col.ID))
	return ""
}

// clientNameFromRawValue probes a label column's JSON value for "label",
// "label_name", or the first element of "labels" (which may itself be an
// object carrying "name" or "label"). Parse failures are swallowed.
func clientNameFromRawValue(raw *string) string {
	if raw == nil || !strings.HasPrefix(strings.TrimSpace(*raw), "{") {
		return ""
	}

	var val map[string]any
	if err := json.Unmarshal([]byte(*raw), &val); err != nil {
		return ""
	}

	candidate := val["label"]
	if emptyCandidate(candidate) {
		candidate = val["label_name"]
	}
	if emptyCandidate(candidate) {
		if labels, ok := val["labels"].([]any); ok && len(labels) > 0 {
			candidate = labels[0]
		}
	}

	if emptyCandidate(candidate) {
		return ""
	}

	switch v := candidate.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if name, ok := v["name"].(string); ok && name != "" {
			return strings.TrimSpace(name)
		}
		if name, ok := v["label"].(string); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func emptyCandidate(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
