package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nexuscrm/persistence/pkg/meta"
)

// Querier runs read queries; *sql.DB, *sql.Tx and *sql.Conn satisfy it
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

const (
	columnsQuery = `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, EXTRA
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`

	keysQuery = `SELECT INDEX_NAME, COLUMN_NAME
		FROM INFORMATION_SCHEMA.STATISTICS
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND NON_UNIQUE = 0
		ORDER BY INDEX_NAME, SEQ_IN_INDEX`

	primaryIndexName = "PRIMARY"
)

// LoadTable reads the metadata of a table in the current database.
// It returns a table without columns when the table does not exist.
func LoadTable(ctx context.Context, q Querier, name string) (*meta.Table, error) {
	table := &meta.Table{Name: name}

	columns, err := loadColumns(ctx, q, name)
	if err != nil {
		return nil, err
	}
	table.Columns = columns
	if len(columns) == 0 {
		return table, nil
	}

	if err := loadKeys(ctx, q, table); err != nil {
		return nil, err
	}
	return table, nil
}

func loadColumns(ctx context.Context, q Querier, name string) ([]meta.Column, error) {
	rows, err := q.QueryContext(ctx, columnsQuery, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []meta.Column
	for rows.Next() {
		var columnName, columnType, nullable, extra string
		if err := rows.Scan(&columnName, &columnType, &nullable, &extra); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", name, err)
		}

		c := meta.NewColumn(columnName, meta.TypeFromName(columnType))
		c.TypeName = columnType
		c.Nullable = strings.EqualFold(nullable, "YES")
		c.Autoincrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}
	return columns, nil
}

func loadKeys(ctx context.Context, q Querier, table *meta.Table) error {
	rows, err := q.QueryContext(ctx, keysQuery, table.Name)
	if err != nil {
		return fmt.Errorf("failed to query keys of %s: %w", table.Name, err)
	}
	defer func() { _ = rows.Close() }()

	var (
		order   []string
		indexes = make(map[string][]string)
	)
	for rows.Next() {
		var indexName, columnName string
		if err := rows.Scan(&indexName, &columnName); err != nil {
			return fmt.Errorf("failed to scan key of %s: %w", table.Name, err)
		}
		if _, ok := indexes[indexName]; !ok {
			order = append(order, indexName)
		}
		indexes[indexName] = append(indexes[indexName], columnName)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read keys of %s: %w", table.Name, err)
	}

	for _, indexName := range order {
		if indexName == primaryIndexName {
			table.PrimaryKey = &meta.PrimaryKey{ColumnNames: indexes[indexName]}
			continue
		}
		table.UniqueKeys = append(table.UniqueKeys, meta.UniqueKey{ColumnNames: indexes[indexName]})
	}
	return nil
}
