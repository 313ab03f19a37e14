package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nexuscrm/persistence/pkg/meta"
)

// SQLParamValue is a resolved column value: either a bound parameter sent through a
// placeholder, or literal SQL text embedded into the statement.
type SQLParamValue struct {
	value     interface{}
	literal   string
	isLiteral bool
}

// Bound creates a placeholder-bound value
func Bound(value interface{}) SQLParamValue {
	return SQLParamValue{value: value}
}

// Literal creates a value rendered as SQL text, e.g. an expression or a sub-select
func Literal(sql string) SQLParamValue {
	return SQLParamValue{literal: sql, isLiteral: true}
}

// IsLiteral reports whether the value is literal SQL
func (p SQLParamValue) IsLiteral() bool {
	return p.isLiteral
}

// SQL returns the literal SQL text, "" for bound values
func (p SQLParamValue) SQL() string {
	return p.literal
}

// Value returns the bound value, or the literal SQL text for literal values
func (p SQLParamValue) Value() interface{} {
	if p.isLiteral {
		return p.literal
	}
	return p.value
}

// HasValue reports whether a bound value is non-nil
func (p SQLParamValue) HasValue() bool {
	return !p.isLiteral && p.value != nil
}

// ParamMapper converts a raw column value into a SQLParamValue. When supplied it replaces
// the default conversion entirely; call DefaultParamValue to delegate.
// A returned value implementing io.Closer is closed when the operation completes.
type ParamMapper interface {
	MapParam(ctx context.Context, exec Executor, table *meta.Table, column *meta.Column, value interface{}) (SQLParamValue, error)
}

// ParamMapperFunc adapts a function to ParamMapper
type ParamMapperFunc func(ctx context.Context, exec Executor, table *meta.Table, column *meta.Column, value interface{}) (SQLParamValue, error)

// MapParam implements ParamMapper
func (f ParamMapperFunc) MapParam(ctx context.Context, exec Executor, table *meta.Table, column *meta.Column, value interface{}) (SQLParamValue, error) {
	return f(ctx, exec, table, column, value)
}

var temporalLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04:05",
}

// DefaultParamValue converts value according to the column's semantic type.
// Blank strings for numeric, boolean and temporal columns become NULL.
func DefaultParamValue(column *meta.Column, value interface{}) (SQLParamValue, error) {
	if value == nil {
		return Bound(nil), nil
	}
	if n, ok := value.(json.Number); ok {
		value = n.String()
	}

	t := column.Type
	switch {
	case t.IsInteger():
		v, err := toInteger(value)
		return Bound(v), err
	case t == meta.TypeDecimal || t == meta.TypeNumeric:
		v, err := toDecimal(value)
		return Bound(v), err
	case t.IsFloating():
		v, err := toFloat(value)
		return Bound(v), err
	case t == meta.TypeBoolean:
		v, err := toBool(value)
		return Bound(v), err
	case t.IsText():
		return Bound(toText(value)), nil
	case t.IsBinary():
		v, err := toBinary(value)
		return Bound(v), err
	case t.IsTemporal():
		return Bound(toTemporal(value)), nil
	}
	return Bound(value), nil
}

func blank(value interface{}) bool {
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toInteger(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case float32:
		return floatToInteger(float64(v))
	case float64:
		return floatToInteger(v)
	case string:
		if blank(v) {
			return nil, nil
		}
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
		return nil, fmt.Errorf("not an integer: %q", v)
	}
	return nil, fmt.Errorf("unsupported integer value type %T", value)
}

func floatToInteger(f float64) (interface{}, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("not an integer: %v", f)
	}
	return int64(f), nil
}

func toDecimal(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		if blank(v) {
			return nil, nil
		}
		s := strings.TrimSpace(v)
		// keep the text to preserve precision
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("not a number: %q", v)
		}
		return s, nil
	}
	return toFloat(value)
}

func toFloat(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case float32, float64:
		return v, nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		if blank(v) {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", v)
		}
		return f, nil
	}
	return nil, fmt.Errorf("unsupported numeric value type %T", value)
}

func toBool(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if blank(v) {
			return nil, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", v)
		}
		return b, nil
	}
	if r := ratOf(value); r != nil {
		return r.Sign() != 0, nil
	}
	return nil, fmt.Errorf("unsupported boolean value type %T", value)
}

func toText(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case io.Reader:
		// streamed text is read at bind time
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

func toBinary(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case io.Reader:
		// streamed content is read at bind time
		return v, nil
	}
	return nil, fmt.Errorf("unsupported binary value type %T", value)
}

func toTemporal(value interface{}) interface{} {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return value
	}
	if blank(s) {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range temporalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	// let the database interpret it
	return s
}
