package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nexuscrm/persistence/internal/infrastructure/database"
	"github.com/nexuscrm/persistence/pkg/dialect"
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/persistence"
)

// command is one parsed rowctl invocation
type command struct {
	Op       string
	Keyword  string
	Where    string
	Filter   string
	Orders   []string
	Page     int
	PageSize int
	Row      string
	Origin   string

	// Attempts bounds write transactions retried after a deadlock
	Attempts int
}

func (c command) query() models.Query {
	q := models.Query{Keyword: c.Keyword, Condition: c.Where, Filter: c.Filter}
	for _, o := range c.Orders {
		q.Orders = append(q.Orders, models.ParseOrder(o))
	}
	return q
}

// execute runs the command and writes its JSON result to out. Writes run in a transaction
// that is retried on deadlock.
func execute(ctx context.Context, engine *persistence.Engine, db *sql.DB, d dialect.Dialect, table *meta.Table, c command, out io.Writer) error {
	using := persistence.UsingDialect(d)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	switch c.Op {
	case "get":
		row, err := parseRow(c.Row)
		if err != nil {
			return err
		}
		found, err := engine.Get(ctx, db, table, row, using)
		if err != nil {
			return err
		}
		return enc.Encode(found)

	case "query":
		q := c.query()
		rows, err := engine.Query(ctx, db, table, &q, using)
		if err != nil {
			return err
		}
		return enc.Encode(rows)

	case "page":
		pq := &models.PagingQuery{Query: c.query(), Page: c.Page, PageSize: c.PageSize}
		data, err := engine.PagingQuery(ctx, db, table, pq, using)
		if err != nil {
			return err
		}
		return enc.Encode(data)

	case "sql":
		q := c.query()
		text, err := engine.QuerySQL(ctx, db, table, &q, using)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, text)
		return err

	case "insert":
		row, err := parseRow(c.Row)
		if err != nil {
			return err
		}
		var inserted *models.Row
		err = database.WithRetry(ctx, db, func(tx *sql.Tx) error {
			inserted, err = engine.Insert(ctx, tx, table, row, using)
			return err
		}, c.Attempts)
		if err != nil {
			return err
		}
		return enc.Encode(inserted)

	case "update":
		origin, err := parseRow(c.Origin)
		if err != nil {
			return err
		}
		update, err := parseRow(c.Row)
		if err != nil {
			return err
		}
		var n int64
		err = database.WithRetry(ctx, db, func(tx *sql.Tx) error {
			n, err = engine.Update(ctx, tx, table, origin, update, using)
			return err
		}, c.Attempts)
		if err != nil {
			return err
		}
		return enc.Encode(map[string]int64{"affected": n})

	case "delete":
		rows, err := parseRows(c.Row)
		if err != nil {
			return err
		}
		var n int64
		err = database.WithRetry(ctx, db, func(tx *sql.Tx) error {
			n, err = engine.Delete(ctx, tx, table, rows, using)
			return err
		}, c.Attempts)
		if err != nil {
			return err
		}
		return enc.Encode(map[string]int64{"affected": n})
	}

	return fmt.Errorf("unknown operation %q", c.Op)
}

func parseRow(s string) (*models.Row, error) {
	if s == "" {
		return nil, fmt.Errorf("a row is required")
	}
	row := models.NewRow()
	if err := json.Unmarshal([]byte(s), row); err != nil {
		return nil, fmt.Errorf("invalid row JSON: %w", err)
	}
	return row, nil
}

func parseRows(s string) ([]*models.Row, error) {
	trimmed := bytes.TrimSpace([]byte(s))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []*models.Row
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("invalid rows JSON: %w", err)
		}
		return rows, nil
	}
	row, err := parseRow(s)
	if err != nil {
		return nil, err
	}
	return []*models.Row{row}, nil
}
