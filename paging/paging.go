// Package paging plans offset-based page requests that cover a known total.
package paging

import (
	"context"

	"github.com/kbukum/kanko/pipeline"
)

// PageSize is the number of records requested per page.
const PageSize = 50

// Page describes one page request for a category.
type Page struct {
	Category string `json:"category"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

// Count returns how many pages are needed to cover total records.
func Count(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Plan lazily yields the pages covering total records of category.
// Offsets start at 0 and advance by PageSize while they are below total.
// Every page asks for the full PageSize, the last one included.
func Plan(category string, total int) pipeline.Iterator[Page] {
	offset := 0
	return pipeline.Generate(func(_ context.Context) (Page, bool, error) {
		if offset >= total {
			return Page{}, false, nil
		}
		p := Page{Category: category, Offset: offset, Limit: PageSize}
		offset += PageSize
		return p, true, nil
	})
}
