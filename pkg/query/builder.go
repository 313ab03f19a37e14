package query

import (
	"strings"
)

// QueryResult represents the built SQL query and parameters
type QueryResult struct {
	SQL    string
	Params []interface{}
}

// Builder accumulates SQL text and its ordered bound parameters.
// Delimited appends (AppendD) are joined with the separator set by Delimit.
// The builder never quotes or escapes anything; that is the dialect's job.
type Builder struct {
	sb        strings.Builder
	params    []interface{}
	delimiter string
	delimited int // delimited appends since the last Delimit call
}

// New creates an empty builder
func New() *Builder {
	return &Builder{params: make([]interface{}, 0)}
}

// Of creates a builder holding text and params
func Of(text string, params ...interface{}) *Builder {
	return New().Append(text).Param(params...)
}

// Append appends raw SQL text
func (b *Builder) Append(text string) *Builder {
	b.sb.WriteString(text)
	return b
}

// AppendSQL appends another builder's text and parameters, preserving order.
// A nil builder appends nothing.
func (b *Builder) AppendSQL(other *Builder) *Builder {
	if other == nil {
		return b
	}
	b.sb.WriteString(other.sb.String())
	b.params = append(b.params, other.params...)
	return b
}

// Delimit sets the separator used by subsequent delimited appends and restarts delimiting
func (b *Builder) Delimit(sep string) *Builder {
	b.delimiter = sep
	b.delimited = 0
	return b
}

// AppendD appends text, preceded by the separator unless it is the first delimited append
func (b *Builder) AppendD(text string) *Builder {
	if b.delimited > 0 {
		b.sb.WriteString(b.delimiter)
	}
	b.sb.WriteString(text)
	b.delimited++
	return b
}

// AppendSQLD is AppendD for a whole builder
func (b *Builder) AppendSQLD(other *Builder) *Builder {
	if b.delimited > 0 {
		b.sb.WriteString(b.delimiter)
	}
	b.delimited++
	return b.AppendSQL(other)
}

// Param appends bound parameter values
func (b *Builder) Param(values ...interface{}) *Builder {
	b.params = append(b.params, values...)
	return b
}

// Delimited returns the number of delimited appends since the last Delimit call
func (b *Builder) Delimited() int {
	return b.delimited
}

// Text returns the accumulated SQL
func (b *Builder) Text() string {
	return b.sb.String()
}

// String returns the accumulated SQL
func (b *Builder) String() string {
	return b.sb.String()
}

// Params returns a copy of the bound parameters
func (b *Builder) Params() []interface{} {
	out := make([]interface{}, len(b.params))
	copy(out, b.params)
	return out
}

// Build returns the SQL text and parameters
func (b *Builder) Build() QueryResult {
	return QueryResult{
		SQL:    b.Text(),
		Params: b.Params(),
	}
}

// IsEmpty reports whether b is nil or holds only whitespace
func IsEmpty(b *Builder) bool {
	return b == nil || strings.TrimSpace(b.sb.String()) == ""
}
