package models

// Product represents a financial product record in the catalog.
// Both dates are carried as ISO strings (YYYY-MM-DD), so comparing them
// lexicographically is equivalent to comparing them chronologically.
type Product struct {
	ID           string `json:"id" validate:"required,min=3,max=10"`
	Name         string `json:"name" validate:"required,min=5,max=100"`
	Description  string `json:"description" validate:"required,min=10,max=200"`
	Logo         string `json:"logo" validate:"required"`
	DateRelease  string `json:"date_release" validate:"required"`
	DateRevision string `json:"date_revision" validate:"required"`
}

// MutationResult is what the upstream products API returns for create,
// update and delete calls: a human-readable message and, optionally,
// the affected record.
type MutationResult struct {
	Message string   `json:"message"`
	Data    *Product `json:"data,omitempty"`
}

// ProductListResult wraps the upstream list response body.
type ProductListResult struct {
	Data []Product `json:"data"`
}
