package persistence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	perrors "github.com/nexuscrm/persistence/pkg/errors"
	"github.com/nexuscrm/persistence/pkg/expression"
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// Query returns the rows of table matching q. A nil q returns every row.
// Ordering is not applied here; use PagingQuery or QuerySQL for ordered output.
func (e *Engine) Query(ctx context.Context, exec Executor, table *meta.Table, q *models.Query, opts ...CallOption) ([]*models.Row, error) {
	op, err := e.begin(ctx, "query", exec, table, opts)
	if err != nil {
		return nil, err
	}
	defer op.close()

	sqlb, err := op.buildQuerySQL(q, true)
	if err != nil {
		return nil, err
	}

	return op.queryRows(sqlb, 1, -1, true)
}

// PagingQuery returns one page of the rows matching pq together with the total count.
//
// The dialect's native paging is used when it offers one. Otherwise the ordered query is
// read from the start and rows before the page are discarded client-side; this in-memory
// pagination is logged at warn level and counted, since it reads every preceding row.
func (e *Engine) PagingQuery(ctx context.Context, exec Executor, table *meta.Table, pq *models.PagingQuery, opts ...CallOption) (*models.PagingData, error) {
	op, err := e.begin(ctx, "paging_query", exec, table, opts)
	if err != nil {
		return nil, err
	}
	defer op.close()

	if pq == nil {
		pq = &models.PagingQuery{Page: 1}
	}

	queryView, err := op.buildQuerySQL(&pq.Query, true)
	if err != nil {
		return nil, err
	}

	total, err := op.queryCount(queryView)
	if err != nil {
		return nil, err
	}

	pagingData := models.NewPagingData(pq.Page, total, pq.PageSize)

	var paged *query.Builder
	startRow := pagingData.StartRow()
	count := pagingData.PageSize()

	if op.dialect.SupportsPaging() {
		paged = op.dialect.PagingSQL(queryView, pq.Orders, startRow, count)

		// the statement already restricts the window
		if paged != nil {
			startRow = 1
			count = -1
		}
	}

	if paged == nil {
		op.log.Warn("memory pagination will be used",
			zap.String("dialect", op.dialect.Name()),
			zap.Int("start_row", startRow),
			zap.Int("page_size", count))
		op.e.metrics.SampleMemoryPaging(op.dialect.Name())

		paged = op.dialect.OrderSQL(queryView, pq.Orders)
	}

	rows, err := op.queryRows(paged, startRow, count, true)
	if err != nil {
		return nil, err
	}
	pagingData.Items = rows

	return pagingData, nil
}

// QuerySQL renders the ordered query for q with every value inlined. The result is meant
// for export and inspection, not execution.
func (e *Engine) QuerySQL(ctx context.Context, exec Executor, table *meta.Table, q *models.Query, opts ...CallOption) (string, error) {
	op, err := e.begin(ctx, "query_sql", exec, table, opts)
	if err != nil {
		return "", err
	}
	defer op.close()

	sqlb, err := op.buildQuerySQL(q, false)
	if err != nil {
		return "", err
	}

	var orders []models.Order
	if q != nil {
		orders = q.Orders
	}
	return op.dialect.OrderSQL(sqlb, orders).Text(), nil
}

// queryCount counts the rows of a query view
func (op *operation) queryCount(view *query.Builder) (int64, error) {
	countSQL := query.New().Append("SELECT COUNT(*) FROM (").AppendSQL(view).Append(") AS T")
	q := countSQL.Build()

	args, err := bindArgs(q.Params)
	if err != nil {
		return 0, op.fail(q, err)
	}

	op.log.Debug("count", zap.String("sql", q.SQL), zap.Int("params", len(args)))

	start := time.Now()
	rows, err := op.exec.QueryContext(op.ctx, q.SQL, args...)
	if err != nil {
		op.e.metrics.SampleStatement(op.name, time.Since(start), err)
		return 0, op.fail(q, err)
	}
	defer rows.Close()

	var total sql.NullInt64
	if rows.Next() {
		err = rows.Scan(&total)
	}
	if err == nil {
		err = rows.Err()
	}
	op.e.metrics.SampleStatement(op.name, time.Since(start), err)
	if err != nil {
		return 0, op.fail(q, err)
	}
	return total.Int64, nil
}

// buildQuerySQL renders SELECT of all supported columns with the query's condition
func (op *operation) buildQuerySQL(q *models.Query, parameterized bool) (*query.Builder, error) {
	sqlb := query.New().Append("SELECT ").Delimit(",")

	for _, c := range op.table.Columns {
		if c.Supported {
			sqlb.AppendD(op.quote(c.Name))
		}
	}
	if sqlb.Delimited() == 0 {
		sqlb.Append("*")
	}

	sqlb.Append(" FROM ").Append(op.quote(op.table.Name))

	condition, err := op.buildQueryCondition(q, parameterized)
	if err != nil {
		return nil, err
	}

	if !query.IsEmpty(condition) {
		sqlb.Append(" WHERE ").AppendSQL(condition)
	}

	return sqlb, nil
}

// buildQueryCondition combines the raw condition, the dialect keyword condition and the
// filter expression. A single part is used as is; several parts are each parenthesized and
// joined with AND. It returns nil when there is no condition.
func (op *operation) buildQueryCondition(q *models.Query, parameterized bool) (*query.Builder, error) {
	if q == nil {
		return nil, nil
	}

	parts := make([]*query.Builder, 0, 3)

	if q.HasCondition() {
		condition := strings.TrimSpace(q.Condition)
		if op.e.validator != nil {
			if err := op.e.validator.ValidateCondition(condition); err != nil {
				return nil, perrors.NewInvalidQueryError("condition", err)
			}
		}
		parts = append(parts, query.Of(condition))
	}

	if q.HasKeyword() {
		if keyword := op.dialect.KeywordCondition(op.table, q, parameterized); !query.IsEmpty(keyword) {
			parts = append(parts, keyword)
		}
	}

	if q.HasFilter() {
		filter, err := op.buildFilterCondition(q.Filter, parameterized)
		if err != nil {
			return nil, err
		}
		parts = append(parts, filter)
	}

	switch len(parts) {
	case 0:
		return nil, nil
	case 1:
		return parts[0], nil
	}

	cond := query.New().Delimit(" AND ")
	for _, p := range parts {
		cond.AppendSQLD(query.New().Append("(").AppendSQL(p).Append(")"))
	}
	return cond, nil
}

func (op *operation) buildFilterCondition(filter string, parameterized bool) (*query.Builder, error) {
	columns := make(map[string]bool, len(op.table.Columns))
	for _, c := range op.table.Columns {
		if c.Supported {
			columns[c.Name] = true
		}
	}

	text, args, err := expression.ToSQL(filter, expression.Options{
		Quote:        op.quote,
		QuoteLiteral: op.dialect.QuoteLiteral,
		Columns:      columns,
		Inline:       !parameterized,
	})
	if err != nil {
		return nil, perrors.NewInvalidQueryError("filter", err)
	}
	return query.Of(text, args...), nil
}
