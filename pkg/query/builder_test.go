package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderDelimit(t *testing.T) {
	b := New().Append("INSERT INTO t (").Delimit(",")
	b.AppendD("a").AppendD("b")
	b.Append(") VALUES (").Delimit(",")
	b.AppendD("?").Param(1).AppendD("?").Param("x")
	b.Append(")")

	q := b.Build()
	assert.Equal(t, "INSERT INTO t (a,b) VALUES (?,?)", q.SQL)
	assert.Equal(t, []interface{}{1, "x"}, q.Params)
	assert.Equal(t, 2, b.Delimited())
}

func TestBuilderAppendSQL(t *testing.T) {
	cond := New().Delimit(" AND ")
	cond.AppendSQLD(Of("a=?", 1))
	cond.AppendSQLD(Of("b=?", 2))

	b := Of("SELECT * FROM t WHERE ").AppendSQL(cond).AppendSQL(nil)
	assert.Equal(t, "SELECT * FROM t WHERE a=? AND b=?", b.Text())
	assert.Equal(t, []interface{}{1, 2}, b.Params())
	assert.Equal(t, b.Text(), b.String())
}

func TestBuilderParamsCopy(t *testing.T) {
	b := Of("?", 1)
	p := b.Params()
	p[0] = 2
	assert.Equal(t, []interface{}{1}, b.Params())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(New()))
	assert.True(t, IsEmpty(Of("  ")))
	assert.False(t, IsEmpty(Of("a=1")))
}

func TestIsSelectSQL(t *testing.T) {
	tests := []struct {
		sql      string
		expected bool
	}{
		{"SELECT 1", true},
		{"  select max(id) from t", true},
		{"SeLeCt\n*\nFROM t", true},
		{"SELECT", false},
		{"SELECTED", false},
		{"NOW()", false},
		{"(SELECT 1)", false},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSelectSQL(tt.sql))
		})
	}
}

func TestBracketIfSelect(t *testing.T) {
	assert.Equal(t, "(SELECT 1)", BracketIfSelect("SELECT 1"))
	assert.Equal(t, "NOW()", BracketIfSelect("NOW()"))
}
