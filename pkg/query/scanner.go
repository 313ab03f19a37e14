package query

import (
	"database/sql"

	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
)

// ScanRows scans SQL rows into rows keyed by result column name, in result column order.
// startRow is the 1-based index of the first row to keep; preceding rows are read and
// discarded. count limits the number of kept rows, a negative count keeps all remaining rows.
func ScanRows(rows *sql.Rows, table *meta.Table, startRow, count int) ([]*models.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	binary := make([]bool, len(columns))
	if table != nil {
		for i, name := range columns {
			if c := table.Column(name); c != nil && c.Type.IsBinary() {
				binary[i] = true
			}
		}
	}

	if startRow < 1 {
		startRow = 1
	}

	results := make([]*models.Row, 0)
	index := 0
	for rows.Next() {
		index++
		if index < startRow {
			continue
		}
		if count >= 0 && len(results) >= count {
			break
		}

		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := models.NewRow()
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok && !binary[i] {
				record.Set(col, string(b))
			} else {
				record.Set(col, val)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
