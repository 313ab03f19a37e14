package query

import "regexp"

var selectSQLRegex = regexp.MustCompile(`(?i)^\s*select\s+\S+[\s\S]*$`)

// IsSelectSQL reports whether sql is a SELECT statement
func IsSelectSQL(sql string) bool {
	if sql == "" {
		return false
	}
	return selectSQLRegex.MatchString(sql)
}

// BracketIfSelect wraps sql in parentheses when it is a SELECT statement,
// so it can be used as a sub-select value
func BracketIfSelect(sql string) string {
	if !IsSelectSQL(sql) {
		return sql
	}
	return "(" + sql + ")"
}
