package dialect

import (
	"fmt"

	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// MySQL is the dialect for MySQL, MariaDB and TiDB
type MySQL struct {
	base
}

// NewMySQL creates the MySQL dialect
func NewMySQL() *MySQL {
	return &MySQL{base{name: "mysql", quoteChar: "`", backslashEscapes: true}}
}

func (d *MySQL) SupportsPaging() bool {
	return true
}

func (d *MySQL) PagingSQL(q *query.Builder, orders []models.Order, startRow, count int) *query.Builder {
	if startRow < 1 {
		startRow = 1
	}
	return query.New().
		AppendSQL(d.OrderSQL(q, orders)).
		Append(fmt.Sprintf(" LIMIT %d, %d", startRow-1, count))
}

func (d *MySQL) OrderSQL(q *query.Builder, orders []models.Order) *query.Builder {
	return d.orderSQL(d.Quote, q, orders)
}

func (d *MySQL) KeywordCondition(table *meta.Table, q *models.Query, parameterized bool) *query.Builder {
	return d.keywordCondition(d.Quote, table, q, parameterized)
}
