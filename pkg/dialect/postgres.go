package dialect

import (
	"fmt"

	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// Postgres is the dialect for PostgreSQL
type Postgres struct {
	base
}

// NewPostgres creates the PostgreSQL dialect
func NewPostgres() *Postgres {
	return &Postgres{base{name: "postgres", quoteChar: `"`}}
}

func (d *Postgres) SupportsPaging() bool {
	return true
}

func (d *Postgres) PagingSQL(q *query.Builder, orders []models.Order, startRow, count int) *query.Builder {
	return limitOffset(d.OrderSQL(q, orders), startRow, count)
}

func (d *Postgres) OrderSQL(q *query.Builder, orders []models.Order) *query.Builder {
	return d.orderSQL(d.Quote, q, orders)
}

func (d *Postgres) KeywordCondition(table *meta.Table, q *models.Query, parameterized bool) *query.Builder {
	return d.keywordCondition(d.Quote, table, q, parameterized)
}

// ReturningSQL renders a RETURNING clause for generated columns
func (d *Postgres) ReturningSQL(columns []meta.Column) string {
	if len(columns) == 0 {
		return ""
	}
	sql := query.New().Append(" RETURNING ").Delimit(", ")
	for _, c := range columns {
		sql.AppendD(d.Quote(c.Name))
	}
	return sql.Text()
}

func limitOffset(q *query.Builder, startRow, count int) *query.Builder {
	if startRow < 1 {
		startRow = 1
	}
	return query.New().
		AppendSQL(q).
		Append(fmt.Sprintf(" LIMIT %d OFFSET %d", count, startRow-1))
}
