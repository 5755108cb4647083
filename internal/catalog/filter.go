package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// PageSize is the number of rows rendered from the start of the filtered set.
type PageSize int

const (
	PageSize10  PageSize = 10
	PageSize25  PageSize = 25
	PageSize50  PageSize = 50
	PageSize100 PageSize = 100

	// DefaultPageSize is used until the operator picks another size.
	DefaultPageSize = PageSize10
)

// PageSizes lists the selectable page sizes in display order.
var PageSizes = []PageSize{PageSize10, PageSize25, PageSize50, PageSize100}

// Valid reports whether the size is one of PageSizes.
func (s PageSize) Valid() bool {
	switch s {
	case PageSize10, PageSize25, PageSize50, PageSize100:
		return true
	}
	return false
}

// ParsePageSize parses a selector value such as "25".
func ParsePageSize(raw string) (PageSize, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageSize, raw)
	}
	size := PageSize(n)
	if !size.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	return size, nil
}

// EmptyStateMessage is shown instead of rows when nothing matches.
const EmptyStateMessage = "No products found"

// VisibleSet is the filtered and truncated subset that gets rendered.
type VisibleSet struct {
	Rows    []Product
	Matched int
	Total   int
	Empty   bool
}

// Summary renders the footer line below the table.
func (v VisibleSet) Summary() string {
	if len(v.Rows) == 0 {
		return "Showing 0 to 0 of 0 entries"
	}
	return fmt.Sprintf("Showing 1 to %d of %d entries", len(v.Rows), v.Matched)
}

// Matches reports whether the case-folded term is contained in the product's
// name, code or category. An empty term matches everything.
func Matches(p Product, term string) bool {
	if term == "" {
		return true
	}
	folder := cases.Fold()
	needle := folder.String(term)
	return strings.Contains(folder.String(p.Name), needle) ||
		strings.Contains(folder.String(p.Code), needle) ||
		strings.Contains(folder.String(p.Category), needle)
}

// Visible filters products by term and keeps the first size matches in their
// existing order.
func Visible(products []Product, term string, size PageSize) VisibleSet {
	if !size.Valid() {
		size = DefaultPageSize
	}
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if Matches(p, term) {
			matched = append(matched, p)
		}
	}
	rows := matched
	if len(rows) > int(size) {
		rows = rows[:int(size)]
	}
	return VisibleSet{
		Rows:    rows,
		Matched: len(matched),
		Total:   len(products),
		Empty:   len(matched) == 0,
	}
}
