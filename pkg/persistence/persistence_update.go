package persistence

import (
	"context"

	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// Update writes the columns present in update to the row identified by origin and
// returns the affected row count.
//
// Auto-increment and primary key columns whose value did not change are left out of the SET
// clause since several databases refuse to update them. When no column remains, no statement
// is executed and 1 is returned; the unique-record condition is still built so that tables
// that can not locate a row fail regardless.
func (e *Engine) Update(ctx context.Context, exec Executor, table *meta.Table, origin, update *models.Row, opts ...CallOption) (int64, error) {
	op, err := e.begin(ctx, "update", exec, table, opts)
	if err != nil {
		return 0, err
	}
	defer op.close()

	sql := query.New().Append("UPDATE ").Append(op.quote(table.Name)).Append(" SET ").Delimit(",")

	updateColumnCount := 0

	for i := range table.Columns {
		column := &table.Columns[i]

		if !column.Supported {
			continue
		}

		value, present := update.Get(column.Name)
		if !present {
			continue
		}

		pv, err := op.resolve(column, value)
		if err != nil {
			return 0, err
		}

		if column.Autoincrement || table.IsPrimaryKeyColumn(column.Name) {
			if SameColumnValue(column, pv.Value(), origin.Value(column.Name)) {
				continue
			}
		}

		if pv.IsLiteral() {
			sql.AppendD(op.quote(column.Name) + "=" + query.BracketIfSelect(pv.SQL()))
		} else {
			sql.AppendD(op.quote(column.Name) + "=?").Param(pv.Value())
		}

		updateColumnCount++
	}

	condition, err := op.uniqueRecordCondition(origin)
	if err != nil {
		return 0, err
	}
	sql.Append(" WHERE ").AppendSQL(condition)

	if updateColumnCount == 0 {
		return 1, nil
	}

	return op.execUpdateCount(sql)
}
