package dialect

import (
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// SQLite is the dialect for SQLite
type SQLite struct {
	base
}

// NewSQLite creates the SQLite dialect
func NewSQLite() *SQLite {
	return &SQLite{base{name: "sqlite", quoteChar: `"`}}
}

func (d *SQLite) SupportsPaging() bool {
	return true
}

func (d *SQLite) PagingSQL(q *query.Builder, orders []models.Order, startRow, count int) *query.Builder {
	return limitOffset(d.OrderSQL(q, orders), startRow, count)
}

func (d *SQLite) OrderSQL(q *query.Builder, orders []models.Order) *query.Builder {
	return d.orderSQL(d.Quote, q, orders)
}

func (d *SQLite) KeywordCondition(table *meta.Table, q *models.Query, parameterized bool) *query.Builder {
	return d.keywordCondition(d.Quote, table, q, parameterized)
}
