// Package dialect supplies the per-database SQL policy used by the persistence engine:
// identifier quoting, keyword search conditions, ordering and paging.
// Supporting a new database means adding a Dialect here, never branching in the engine.
package dialect

import (
	"fmt"
	"strings"

	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// Dialect is the capability interface of one database product
type Dialect interface {
	// Name identifies the dialect in logs and metrics
	Name() string

	// Quote quotes an identifier
	Quote(name string) string

	// QuoteLiteral renders s as a string literal safe to embed in SQL text
	QuoteLiteral(s string) string

	// SupportsPaging reports whether PagingSQL may produce native paging SQL
	SupportsPaging() bool

	// PagingSQL wraps q so that it returns count rows starting at the 1-based startRow,
	// ordered by orders. A nil result means the dialect declines.
	PagingSQL(q *query.Builder, orders []models.Order, startRow, count int) *query.Builder

	// OrderSQL appends ordering to q
	OrderSQL(q *query.Builder, orders []models.Order) *query.Builder

	// KeywordCondition builds a search condition for the query keyword, or nil when
	// there is nothing to search
	KeywordCondition(table *meta.Table, q *models.Query, parameterized bool) *query.Builder
}

// ReturningDialect is implemented by dialects that report generated column values
// through a RETURNING clause instead of LastInsertId
type ReturningDialect interface {
	Dialect
	ReturningSQL(columns []meta.Column) string
}

// ByName returns the dialect registered under name
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "tidb", "mariadb":
		return NewMySQL(), nil
	case "postgres", "postgresql", "pgx":
		return NewPostgres(), nil
	case "sqlite", "sqlite3":
		return NewSQLite(), nil
	case "generic", "ansi", "":
		return NewGeneric(), nil
	}
	return nil, fmt.Errorf("unknown dialect: %s", name)
}

// base implements the parts shared by every dialect
type base struct {
	name      string
	quoteChar string

	// backslash is an escape character inside string literals
	backslashEscapes bool
}

func (d *base) Name() string {
	return d.name
}

func (d *base) Quote(name string) string {
	return d.quoteChar + strings.ReplaceAll(name, d.quoteChar, d.quoteChar+d.quoteChar) + d.quoteChar
}

func (d *base) QuoteLiteral(s string) string {
	if d.backslashEscapes {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return QuoteString(s)
}

func (d *base) orderSQL(quote func(string) string, q *query.Builder, orders []models.Order) *query.Builder {
	if len(orders) == 0 {
		return q
	}

	sql := query.New().AppendSQL(q).Append(" ORDER BY ").Delimit(", ")
	for _, o := range orders {
		dir := models.OrderAsc
		if strings.EqualFold(string(o.Type), string(models.OrderDesc)) {
			dir = models.OrderDesc
		}
		sql.AppendD(quote(o.Name) + " " + string(dir))
	}
	return sql
}

func (d *base) keywordCondition(quote func(string) string, table *meta.Table, q *models.Query, parameterized bool) *query.Builder {
	if !q.HasKeyword() {
		return nil
	}

	pattern := "%" + strings.TrimSpace(q.Keyword) + "%"
	sql := query.New().Delimit(" OR ")
	for _, c := range table.Columns {
		if !c.Supported || !c.Type.IsText() || c.Type.IsLargeObject() {
			continue
		}
		if parameterized {
			sql.AppendD(quote(c.Name) + " LIKE ?").Param(pattern)
		} else {
			sql.AppendD(quote(c.Name) + " LIKE " + d.QuoteLiteral(pattern))
		}
	}

	if sql.Delimited() == 0 {
		return nil
	}
	return sql
}

// QuoteString renders s as a single-quoted ANSI SQL string literal.
// Dialects whose literals treat backslash as an escape use Dialect.QuoteLiteral instead.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
