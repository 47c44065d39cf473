package models

// Item is one row on a Monday.com board, with its full column data as
// returned by the items_page / next_items_page GraphQL queries.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// ColumnValue is one cell of an item. Which fields are populated depends on
// the column type: plain text columns fill Text, mirror/lookup columns fill
// DisplayValue and/or MirroredItems, and label-style columns encode their
// selection as a JSON string in Value.
type ColumnValue struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Text   string  `json:"text"`
	Value  *string `json:"value"`
	Column struct {
		Title string `json:"title"`
	} `json:"column"`
	DisplayValue  string         `json:"display_value"`
	MirroredItems []MirroredItem `json:"mirrored_items"`
}

// MirroredItem is one entry of a mirror column's linked-item list.
type MirroredItem struct {
	LinkedItem struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"linked_item"`
}

// Title returns the column's display title.
func (cv ColumnValue) Title() string {
	return cv.Column.Title
}
