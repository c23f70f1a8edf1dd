// Package listview derives what a product list page actually shows:
// filtered and paginated projections over a loaded collection, a
// free-text search term and pagination parameters.
package listview

import (
	"strings"

	"catalogo/internal/models"
)

// DefaultPageSize matches the list page's initial page size selection.
const DefaultPageSize = 5

// Store holds the authoritative list view state for one page instance.
// Projections (FilteredItems, TotalPages, PageItems) are recomputed on
// demand from this state, so they can never go stale.
type Store struct {
	items       []models.Product
	searchTerm  string
	pageSize    int
	currentPage int
}

// New creates a store with no items, an empty search term and the given
// page size (non-positive sizes fall back to DefaultPageSize).
func New(pageSize int) *Store {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Store{pageSize: pageSize, currentPage: 1}
}

// SetItems replaces the source collection wholesale, e.g. after a fresh
// load. It deliberately does not reset the current page; callers that
// want reset-on-reload semantics call SetPage(1) as well.
func (s *Store) SetItems(items []models.Product) {
	s.items = items
}

// SetSearchTerm updates the free-text filter. The term is trimmed and
// case-folded before matching, and the current page resets to 1.
func (s *Store) SetSearchTerm(term string) {
	s.searchTerm = strings.ToLower(strings.TrimSpace(term))
	s.currentPage = 1
}

// SetPageSize updates the page size, clamping to at least 1, and resets
// the current page to 1.
func (s *Store) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	s.pageSize = size
	s.currentPage = 1
}

// SetPage jumps to an arbitrary page, clamped to [1, TotalPages].
func (s *Store) SetPage(page int) {
	s.currentPage = s.clampPage(page)
}

// NextPage advances one page; a no-op on the last page.
func (s *Store) NextPage() {
	s.currentPage = s.clampPage(s.Page() + 1)
}

// PreviousPage goes back one page; a no-op on the first page.
func (s *Store) PreviousPage() {
	s.currentPage = s.clampPage(s.Page() - 1)
}

// Page returns the effective current page, clamped to the valid range
// in case the collection or filter shrank underneath it.
func (s *Store) Page() int {
	return s.clampPage(s.currentPage)
}

// PageSize returns the current page size.
func (s *Store) PageSize() int {
	return s.pageSize
}

// SearchTerm returns the normalized search term.
func (s *Store) SearchTerm() string {
	return s.searchTerm
}

// FilteredItems returns the items matching the search term, in source
// order. An empty term passes the collection through unchanged; a
// non-empty term matches case-insensitively as a substring of the
// item's id, name and description.
func (s *Store) FilteredItems() []models.Product {
	if s.searchTerm == "" {
		return s.items
	}

	var filtered []models.Product
	for _, item := range s.items {
		haystack := strings.ToLower(item.ID + " " + item.Name + " " + item.Description)
		if strings.Contains(haystack, s.searchTerm) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// TotalPages returns the number of pages in the filtered set. It is
// never less than 1: an empty result still renders a single empty page.
func (s *Store) TotalPages() int {
	pages := (len(s.FilteredItems()) + s.pageSize - 1) / s.pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PageItems returns the slice of FilteredItems shown on the current
// page; the final page may be shorter than the page size.
func (s *Store) PageItems() []models.Product {
	filtered := s.FilteredItems()
	start := (s.Page() - 1) * s.pageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + s.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

func (s *Store) clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if total := s.TotalPages(); page > total {
		return total
	}
	return page
}
