package dialect

import (
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// Generic is an ANSI dialect for databases without a dedicated implementation.
// It has no paging syntax, so paged reads fall back to in-memory pagination.
type Generic struct {
	base
}

// NewGeneric creates the generic dialect
func NewGeneric() *Generic {
	return &Generic{base{name: "generic", quoteChar: `"`}}
}

func (d *Generic) SupportsPaging() bool {
	return false
}

func (d *Generic) PagingSQL(q *query.Builder, orders []models.Order, startRow, count int) *query.Builder {
	return nil
}

func (d *Generic) OrderSQL(q *query.Builder, orders []models.Order) *query.Builder {
	return d.orderSQL(d.Quote, q, orders)
}

func (d *Generic) KeywordCondition(table *meta.Table, q *models.Query, parameterized bool) *query.Builder {
	return d.keywordCondition(d.Quote, table, q, parameterized)
}
