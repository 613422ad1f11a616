// Package entity defines data structures shared by the web layer.
package entity

// ErrorMsg is the JSON error body the API emits for expected failures.
type ErrorMsg struct {
	Error string `json:"error"`
}

// Pagination describes the slice of an audit listing being returned.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Page wraps a paginated listing.
type Page struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
