package models

// Page is the envelope of every paginated list response. Field order is part of the wire format.
type Page[T any] struct {
	ItemsCount int     `json:"items_count"`
	Next       *string `json:"next item"`
	Previous   *string `json:"previous item"`
	Items      []T     `json:"items"`
}

// PageRequest is a window over a list in offset/limit form.
type PageRequest struct {
	Limit  int
	Offset int
}
