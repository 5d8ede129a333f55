package client

import (
	"context"

	"github.com/rasoihub/recipeops/internal/models"
)

// Pager walks the recipe list page by page. The API does not return a total
// count; a page shorter than the requested limit marks the end, so HasNext
// can briefly be true after an exactly-full final page.
type Pager struct {
	client  *Client
	limit   int
	status  string
	page    int
	hasNext bool
}

// NewPager creates a pager over recipes with the given page size and
// optional validation status filter.
func NewPager(c *Client, limit int, status string) *Pager {
	if limit <= 0 {
		limit = 20
	}
	return &Pager{client: c, limit: limit, status: status, page: 1, hasNext: true}
}

// Page returns the current page number, starting at 1.
func (p *Pager) Page() int { return p.page }

// HasNext reports whether another page may exist. It is true before the
// first fetch and turns false once a short page is seen.
func (p *Pager) HasNext() bool { return p.hasNext }

// Next fetches the current page and advances. Calling Next after HasNext
// turned false returns an empty slice.
func (p *Pager) Next(ctx context.Context) ([]models.Recipe, error) {
	if !p.hasNext {
		return nil, nil
	}

	resp, err := p.client.ListRecipes(ctx, p.page, p.limit, p.status)
	if err != nil {
		return nil, err
	}

	// The server caps oversized limits and echoes the cap; judge the page
	// against the limit it actually applied.
	effective := p.limit
	if resp.Limit > 0 && resp.Limit < effective {
		effective = resp.Limit
	}

	p.page++
	if len(resp.Recipes) < effective {
		p.hasNext = false
	}
	return resp.Recipes, nil
}

// Reset rewinds to the first page, e.g. after the filter context changed.
func (p *Pager) Reset() {
	p.page = 1
	p.hasNext = true
}
