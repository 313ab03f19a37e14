package models

import "encoding/json"

// DefaultPageSize is used when a non-positive page size is requested
const DefaultPageSize = 20

// PagingData holds one page of rows. Page and page size are normalized on creation;
// start row, end row and page count are always derived from them.
type PagingData struct {
	page     int
	total    int64
	pageSize int
	Items    []*Row
}

// NewPagingData normalizes page and pageSize against total
func NewPagingData(page int, total int64, pageSize int) *PagingData {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	p := &PagingData{page: page, total: total, pageSize: pageSize}
	if pages := p.Pages(); p.page > pages {
		p.page = pages
	}
	if p.page < 1 {
		p.page = 1
	}
	return p
}

// Page returns the 1-based page number
func (p *PagingData) Page() int { return p.page }

// Total returns the total row count
func (p *PagingData) Total() int64 { return p.total }

// PageSize returns the rows per page
func (p *PagingData) PageSize() int { return p.pageSize }

// Pages returns the page count
func (p *PagingData) Pages() int {
	pages := p.total / int64(p.pageSize)
	if p.total%int64(p.pageSize) > 0 {
		pages++
	}
	return int(pages)
}

// StartRow returns the 1-based index of the first row of the page
func (p *PagingData) StartRow() int {
	return (p.page-1)*p.pageSize + 1
}

// EndRow returns the 1-based exclusive index after the last row of the page
func (p *PagingData) EndRow() int {
	end := p.StartRow() + p.pageSize
	if limit := int(p.total) + 1; end > limit {
		end = limit
	}
	return end
}

type pagingDataJSON struct {
	Page     int    `json:"page"`
	Total    int64  `json:"total"`
	PageSize int    `json:"page_size"`
	Pages    int    `json:"pages"`
	StartRow int    `json:"start_row"`
	EndRow   int    `json:"end_row"`
	Items    []*Row `json:"items"`
}

// MarshalJSON writes the page including its derived fields
func (p *PagingData) MarshalJSON() ([]byte, error) {
	return json.Marshal(pagingDataJSON{
		Page:     p.page,
		Total:    p.total,
		PageSize: p.pageSize,
		Pages:    p.Pages(),
		StartRow: p.StartRow(),
		EndRow:   p.EndRow(),
		Items:    p.Items,
	})
}
