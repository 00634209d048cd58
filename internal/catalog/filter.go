// Package catalog filters the project gallery by category.
package catalog

import (
	"slices"
	"sync"

	"github.com/Zachkp/portfolio/internal/apperror"
)

// All is the category that selects every item.
const All = "All"

// Categorized is anything that belongs to exactly one category.
type Categorized interface {
	CategoryName() string
}

// Filter returns the items in category, in their original order. All returns
// items itself. A category with no items yields an empty, non-nil slice.
func Filter[T Categorized](items []T, category string) []T {
	if category == All {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.CategoryName() == category {
			out = append(out, item)
		}
	}
	return out
}

// Selector holds the active category, always a member of a fixed set.
type Selector struct {
	categories []string

	mu     sync.Mutex
	active string
}

// NewSelector builds a selector over categories. All is added in front when
// missing, duplicates are dropped, and All starts active.
func NewSelector(categories []string) *Selector {
	set := []string{All}
	for _, c := range categories {
		if c != "" && !slices.Contains(set, c) {
			set = append(set, c)
		}
	}
	return &Selector{categories: set, active: All}
}

// Categories returns the fixed category set in display order.
func (s *Selector) Categories() []string {
	return slices.Clone(s.categories)
}

// Has reports whether category is in the set.
func (s *Selector) Has(category string) bool {
	return slices.Contains(s.categories, category)
}

// Active returns the selected category.
func (s *Selector) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Select makes category active. Categories outside the set are rejected and
// leave the selection unchanged.
func (s *Selector) Select(category string) error {
	if !s.Has(category) {
		return apperror.ErrUnknownCategory
	}
	s.mu.Lock()
	s.active = category
	s.mu.Unlock()
	return nil
}
