package persistence

import (
	"context"

	perrors "github.com/nexuscrm/persistence/pkg/errors"
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// Get returns the row matching the unique-record condition built from param.
// It returns nil when nothing matches and a NonUniqueResultError when several rows match,
// which can happen for tables located by the heuristic column set.
func (e *Engine) Get(ctx context.Context, exec Executor, table *meta.Table, param *models.Row, opts ...CallOption) (*models.Row, error) {
	op, err := e.begin(ctx, "get", exec, table, opts)
	if err != nil {
		return nil, err
	}
	defer op.close()

	condition, err := op.uniqueRecordCondition(param)
	if err != nil {
		return nil, err
	}

	sql := query.New().Append("SELECT * FROM ").Append(op.quote(table.Name)).Append(" WHERE ").AppendSQL(condition)

	rows, err := op.queryRows(sql, 1, -1, true)
	if err != nil {
		return nil, err
	}

	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	}
	return nil, perrors.NewNonUniqueResultError(table.Name, len(rows))
}
