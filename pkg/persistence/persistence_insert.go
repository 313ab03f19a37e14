package persistence

import (
	"context"

	"github.com/nexuscrm/persistence/pkg/dialect"
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// Insert inserts row and returns a copy of it merged with database-generated values.
//
// Unsupported columns are skipped. An auto-increment column without a value is left to the
// database and reported back; one with a value is written. Absent columns and nil values are
// omitted so the database default applies. Literal values are inlined, wrapped in
// parentheses when they are a SELECT.
func (e *Engine) Insert(ctx context.Context, exec Executor, table *meta.Table, row *models.Row, opts ...CallOption) (*models.Row, error) {
	op, err := e.begin(ctx, "insert", exec, table, opts)
	if err != nil {
		return nil, err
	}
	defer op.close()

	sql := query.New().Append("INSERT INTO ").Append(op.quote(table.Name)).Append(" (").Delimit(",")
	valueSQL := query.New().Append(" VALUES (").Delimit(",")

	generated := make([]meta.Column, 0, 2)

	for i := range table.Columns {
		column := &table.Columns[i]

		// Skip unsupported columns rather than failing the whole insert
		if !column.Supported {
			continue
		}

		value, present := row.Get(column.Name)

		// Only report generated values for auto-increment columns left empty,
		// an explicit value is still written
		if column.Autoincrement && isEmptyValue(value) {
			generated = append(generated, *column)
			continue
		}

		if !present || value == nil {
			continue
		}

		pv, err := op.resolve(column, value)
		if err != nil {
			return nil, err
		}

		sql.AppendD(op.quote(column.Name))

		if pv.IsLiteral() {
			valueSQL.AppendD(query.BracketIfSelect(pv.SQL()))
		} else {
			valueSQL.AppendD("?").Param(pv.Value())
		}
	}

	sql.Append(")")
	valueSQL.Append(")")
	sql.AppendSQL(valueSQL)

	result := row.Clone()

	gen, err := op.insertWithGenerated(sql, generated)
	if err != nil {
		return nil, err
	}

	return result.Merge(gen), nil
}

// insertWithGenerated executes the INSERT and returns the generated column values it can learn
func (op *operation) insertWithGenerated(sql *query.Builder, generated []meta.Column) (*models.Row, error) {
	gen := models.NewRow()

	if rd, ok := op.dialect.(dialect.ReturningDialect); ok && len(generated) > 0 {
		sql.Append(rd.ReturningSQL(generated))
		rows, err := op.queryRows(sql, 1, 1, false)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			gen.Merge(rows[0])
		}
		return gen, nil
	}

	res, err := op.execUpdate(sql)
	if err != nil {
		return nil, err
	}

	// LastInsertId reports a single auto-increment value
	if len(generated) == 1 {
		if id, err := res.LastInsertId(); err == nil && id > 0 {
			gen.Set(generated[0].Name, id)
		}
	}
	return gen, nil
}

func isEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
