// Package persistence synthesizes and executes CRUD SQL for tables described by pkg/meta.
//
// The Engine is stateless: every call is a self-contained unit of work against the
// caller-supplied Executor, so concurrent callers only need their own connection or
// transaction. Transactions, pooling and timeouts are left to the caller.
package persistence

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexuscrm/persistence/pkg/dialect"
	perrors "github.com/nexuscrm/persistence/pkg/errors"
	"github.com/nexuscrm/persistence/pkg/meta"
	"github.com/nexuscrm/persistence/pkg/metrics"
	"github.com/nexuscrm/persistence/pkg/models"
	"github.com/nexuscrm/persistence/pkg/query"
)

// ConditionValidator checks raw condition clauses before they are embedded in a query
type ConditionValidator interface {
	ValidateCondition(condition string) error
}

// RowMapper post-processes every row read from the database
type RowMapper interface {
	MapRow(ctx context.Context, table *meta.Table, row *models.Row, rowIndex int) (*models.Row, error)
}

// RowMapperFunc adapts a function to RowMapper
type RowMapperFunc func(ctx context.Context, table *meta.Table, row *models.Row, rowIndex int) (*models.Row, error)

// MapRow implements RowMapper
func (f RowMapperFunc) MapRow(ctx context.Context, table *meta.Table, row *models.Row, rowIndex int) (*models.Row, error) {
	return f(ctx, table, row, rowIndex)
}

// Engine implements insert, update, delete, get, query and paged query
type Engine struct {
	dialects        dialect.Source
	logger          *zap.Logger
	metrics         *metrics.Metrics
	validator       ConditionValidator
	heuristicUnique bool
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the engine collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithConditionValidator validates raw query conditions before use
func WithConditionValidator(v ConditionValidator) Option {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithHeuristicUniqueColumns enables or disables locating rows of tables without primary
// or unique key by all their comparable columns. Enabled by default. The heuristic gives no
// uniqueness guarantee, so Get may report NonUniqueResult and Update/Delete may touch
// several identical rows.
func WithHeuristicUniqueColumns(enabled bool) Option {
	return func(e *Engine) {
		e.heuristicUnique = enabled
	}
}

// NewEngine creates an engine resolving dialects from source when a call names none
func NewEngine(source dialect.Source, opts ...Option) *Engine {
	e := &Engine{
		dialects:        source,
		logger:          zap.NewNop(),
		heuristicUnique: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CallOption configures a single engine call
type CallOption func(*callOptions)

type callOptions struct {
	dialect   dialect.Dialect
	params    ParamMapper
	rowMapper RowMapper
}

// UsingDialect skips dialect resolution for this call
func UsingDialect(d dialect.Dialect) CallOption {
	return func(o *callOptions) {
		o.dialect = d
	}
}

// UsingParamMapper replaces the default value conversion for this call
func UsingParamMapper(m ParamMapper) CallOption {
	return func(o *callOptions) {
		o.params = m
	}
}

// UsingRowMapper post-processes rows read by this call
func UsingRowMapper(m RowMapper) CallOption {
	return func(o *callOptions) {
		o.rowMapper = m
	}
}

// operation is the per-call unit of work. It owns the resource registry of the call.
type operation struct {
	e       *Engine
	ctx     context.Context
	name    string
	exec    Executor
	table   *meta.Table
	dialect dialect.Dialect
	opts    callOptions
	reg     *Registry
	log     *zap.Logger
}

// begin validates the table and resolves the dialect. Callers must defer op.close().
func (e *Engine) begin(ctx context.Context, name string, exec Executor, table *meta.Table, opts []CallOption) (*operation, error) {
	if !table.HasColumn() {
		tableName := ""
		if table != nil {
			tableName = table.Name
		}
		return nil, perrors.NewInvalidTableError(tableName)
	}

	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	d := o.dialect
	if d == nil {
		if e.dialects == nil {
			return nil, perrors.NewPersistenceError(name, table.Name, "", errNoDialectSource)
		}
		var err error
		if d, err = e.dialects.GetDialect(exec); err != nil {
			return nil, perrors.NewPersistenceError(name, table.Name, "", err)
		}
	}

	return &operation{
		e:       e,
		ctx:     ctx,
		name:    name,
		exec:    exec,
		table:   table,
		dialect: d,
		opts:    o,
		reg:     NewRegistry(),
		log: e.logger.With(
			zap.String("op", name),
			zap.String("table", table.Name),
			zap.String("op_id", uuid.NewString()),
		),
	}, nil
}

// close releases every registered resource. Release failures are logged, never returned.
func (op *operation) close() {
	op.releaseClear()
}

func (op *operation) releaseClear() {
	if err := op.reg.ReleaseClear(); err != nil {
		failed := 1
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			failed = len(joined.Unwrap())
		}
		op.e.metrics.SampleReleaseFailures(failed)
		op.log.Warn("failed to release parameter resources", zap.Error(err))
	}
}

func (op *operation) quote(name string) string {
	return op.dialect.Quote(name)
}

// resolve converts a raw value for column and registers its resource for release
func (op *operation) resolve(column *meta.Column, value interface{}) (SQLParamValue, error) {
	var (
		pv  SQLParamValue
		err error
	)
	if op.opts.params != nil {
		pv, err = op.opts.params.MapParam(op.ctx, op.exec, op.table, column, value)
	} else {
		pv, err = DefaultParamValue(column, value)
	}

	// a mapper may have opened a resource before failing
	op.reg.Register(pv.Value())

	if err != nil {
		return SQLParamValue{}, perrors.NewParamConversionError(op.table.Name, column.Name, value, err)
	}
	return pv, nil
}

// bindArgs reads streamed values into memory; drivers accept no readers
func bindArgs(params []interface{}) ([]interface{}, error) {
	args := make([]interface{}, len(params))
	for i, p := range params {
		if r, ok := p.(io.Reader); ok {
			b, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			args[i] = b
			continue
		}
		args[i] = p
	}
	return args, nil
}

func (op *operation) fail(q query.QueryResult, err error) error {
	return perrors.NewPersistenceError(op.name, op.table.Name, q.SQL, err)
}

// execUpdate executes a statement returning no rows
func (op *operation) execUpdate(sqlb *query.Builder) (sql.Result, error) {
	q := sqlb.Build()
	args, err := bindArgs(q.Params)
	if err != nil {
		return nil, op.fail(q, err)
	}

	op.log.Debug("exec", zap.String("sql", q.SQL), zap.Int("params", len(args)))

	start := time.Now()
	res, err := op.exec.ExecContext(op.ctx, q.SQL, args...)
	op.e.metrics.SampleStatement(op.name, time.Since(start), err)
	if err != nil {
		return nil, op.fail(q, err)
	}
	return res, nil
}

// execUpdateCount executes a statement and returns the affected row count
func (op *operation) execUpdateCount(sqlb *query.Builder) (int64, error) {
	res, err := op.execUpdate(sqlb)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, op.fail(sqlb.Build(), err)
	}
	return n, nil
}

// queryRows executes a query and materializes count rows from the 1-based startRow,
// a negative count reading all. Rows pass through the call's RowMapper when mapped is true.
func (op *operation) queryRows(sqlb *query.Builder, startRow, count int, mapped bool) ([]*models.Row, error) {
	q := sqlb.Build()
	args, err := bindArgs(q.Params)
	if err != nil {
		return nil, op.fail(q, err)
	}

	op.log.Debug("query", zap.String("sql", q.SQL), zap.Int("params", len(args)),
		zap.Int("start_row", startRow), zap.Int("count", count))

	start := time.Now()
	rows, err := op.exec.QueryContext(op.ctx, q.SQL, args...)
	if err != nil {
		op.e.metrics.SampleStatement(op.name, time.Since(start), err)
		return nil, op.fail(q, err)
	}
	defer rows.Close()

	results, err := query.ScanRows(rows, op.table, startRow, count)
	op.e.metrics.SampleStatement(op.name, time.Since(start), err)
	if err != nil {
		return nil, op.fail(q, err)
	}

	if !mapped || op.opts.rowMapper == nil {
		return results, nil
	}
	for i, r := range results {
		m, err := op.opts.rowMapper.MapRow(op.ctx, op.table, r, i)
		if err != nil {
			return nil, op.fail(q, err)
		}
		results[i] = m
	}
	return results, nil
}
