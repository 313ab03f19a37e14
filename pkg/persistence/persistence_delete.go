package persistence

import (
	"context"

	perrors "github.com/nexuscrm/persistence/pkg/errors"
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// Delete deletes each row by its unique-record condition, one statement per row, and returns
// the summed affected count. Resources resolved for a row are released before the next row.
func (e *Engine) Delete(ctx context.Context, exec Executor, table *meta.Table, rows []*models.Row, opts ...CallOption) (int64, error) {
	op, err := e.begin(ctx, "delete", exec, table, opts)
	if err != nil {
		return 0, err
	}
	defer op.close()

	var count int64

	for _, row := range rows {
		condition, err := op.uniqueRecordCondition(row)
		if err != nil {
			return count, err
		}

		sql := query.New().Append("DELETE FROM ").Append(op.quote(table.Name)).Append(" WHERE ").AppendSQL(condition)

		n, err := op.execUpdateCount(sql)
		if err != nil {
			return count, err
		}
		count += n

		op.releaseClear()
	}

	return count, nil
}

// DeleteWhere would delete the rows matching q. It is not implemented and always reports
// an UnsupportedOperationError after validating the table.
func (e *Engine) DeleteWhere(ctx context.Context, exec Executor, table *meta.Table, q *models.Query, opts ...CallOption) (int64, error) {
	if !table.HasColumn() {
		tableName := ""
		if table != nil {
			tableName = table.Name
		}
		return 0, perrors.NewInvalidTableError(tableName)
	}
	return 0, perrors.NewUnsupportedOperationError("delete by query")
}
