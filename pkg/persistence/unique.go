package persistence

import (
	perrors "github.com/nexuscrm/persistence/pkg/errors"
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// uniqueRecordCondition builds a condition meant to match the single row described by row:
// `col=?` per unique-record column, `col IS NULL` for nil values, inlined literals otherwise.
func (op *operation) uniqueRecordCondition(row *models.Row) (*query.Builder, error) {
	columns, err := op.e.uniqueRecordColumns(op.table)
	if err != nil {
		return nil, err
	}

	sql := query.New().Delimit(" AND ")

	for i := range columns {
		column := &columns[i]
		name := op.quote(column.Name)

		pv, err := op.resolve(column, row.Value(column.Name))
		if err != nil {
			return nil, err
		}

		switch {
		case pv.IsLiteral():
			sql.AppendD(name + "=" + query.BracketIfSelect(pv.SQL()))
		case pv.HasValue():
			sql.AppendD(name + "=?").Param(pv.Value())
		default:
			sql.AppendD(name + " IS NULL")
		}
	}

	return sql, nil
}

// uniqueRecordColumns picks the columns identifying a row: the primary key, else the first
// unique key, else (when enabled) the heuristic column set
func (e *Engine) uniqueRecordColumns(table *meta.Table) ([]meta.Column, error) {
	var columns []meta.Column

	switch {
	case table.HasPrimaryKey():
		columns = table.ColumnsByName(table.PrimaryKey.ColumnNames)
	case table.HasUniqueKey():
		columns = table.ColumnsByName(table.UniqueKeys[0].ColumnNames)
	case e.heuristicUnique:
		columns = HeuristicUniqueColumns(table)
	}

	if len(columns) == 0 {
		return nil, perrors.NewNoUniqueRecordColumnsError(table.Name)
	}
	return columns, nil
}

// comparableTypes are the types whose values can be matched with "=" reliably.
// Large objects and national character types are excluded.
var comparableTypes = map[meta.SQLType]bool{
	meta.TypeBigInt:      true,
	meta.TypeBit:         true,
	meta.TypeBoolean:     true,
	meta.TypeChar:        true,
	meta.TypeDate:        true,
	meta.TypeDecimal:     true,
	meta.TypeDouble:      true,
	meta.TypeFloat:       true,
	meta.TypeBinary:      true,
	meta.TypeVarBinary:   true,
	meta.TypeInteger:     true,
	meta.TypeNull:        true,
	meta.TypeNumeric:     true,
	meta.TypeReal:        true,
	meta.TypeSmallInt:    true,
	meta.TypeTime:        true,
	meta.TypeTimeTZ:      true,
	meta.TypeTimestamp:   true,
	meta.TypeTimestampTZ: true,
	meta.TypeTinyInt:     true,
	meta.TypeVarChar:     true,
}

// HeuristicUniqueColumns returns every supported column of a comparable type. It is the
// best-effort fallback for tables without primary or unique key and does not guarantee
// that the resulting condition matches a single row.
func HeuristicUniqueColumns(table *meta.Table) []meta.Column {
	columns := make([]meta.Column, 0, len(table.Columns))
	for _, c := range table.Columns {
		if c.Supported && comparableTypes[c.Type] {
			columns = append(columns, c)
		}
	}
	return columns
}
