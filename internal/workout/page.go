// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package workout

import (
	"strconv"
	"strings"
)

// PageSize is the number of workouts per list page.
const PageSize = 12

// Page is one page of an owner's workouts.
type Page struct {
	Number     int
	TotalPages int
	TotalItems int
	Workouts   []*Workout
}

// HasPrev reports whether a page precedes this one.
func (p *Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a page follows this one.
func (p *Page) HasNext() bool { return p.Number < p.TotalPages }

// Prev returns the previous page number.
func (p *Page) Prev() int { return max(p.Number-1, 1) }

// Next returns the next page number.
func (p *Page) Next() int { return min(p.Number+1, p.TotalPages) }

// ParsePage reads a page query value. Anything that is not an integer, and
// any integer below 1, means the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages returns how many pages of size hold total items. An empty
// list is still one page.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage limits page to [1, pages].
func ClampPage(page, pages int) int {
	return min(max(page, 1), max(pages, 1))
}
