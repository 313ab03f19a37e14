package models

import "strings"

// OrderType is the direction of an ordering term
type OrderType string

const (
	OrderAsc  OrderType = "ASC"
	OrderDesc OrderType = "DESC"
)

// Order is a single ordering term
type Order struct {
	Name string    `json:"name"`
	Type OrderType `json:"type"`
}

// Asc creates an ascending order term
func Asc(name string) Order {
	return Order{Name: name, Type: OrderAsc}
}

// Desc creates a descending order term
func Desc(name string) Order {
	return Order{Name: name, Type: OrderDesc}
}

// ParseOrder parses "name" or "name:desc"
func ParseOrder(s string) Order {
	name, dir, _ := strings.Cut(strings.TrimSpace(s), ":")
	if strings.EqualFold(dir, "desc") {
		return Desc(name)
	}
	return Asc(name)
}

// Query describes a filtered read against one table
type Query struct {
	Keyword   string  `json:"keyword,omitempty"`
	Condition string  `json:"condition,omitempty"` // Raw SQL condition clause
	Filter    string  `json:"filter,omitempty"`    // Expression filter, e.g. "Amount > 10 && Stage == 'Won'"
	Orders    []Order `json:"orders,omitempty"`
}

// HasKeyword reports whether a non-blank keyword is set
func (q *Query) HasKeyword() bool {
	return q != nil && strings.TrimSpace(q.Keyword) != ""
}

// HasCondition reports whether a non-blank raw condition is set
func (q *Query) HasCondition() bool {
	return q != nil && strings.TrimSpace(q.Condition) != ""
}

// HasFilter reports whether a non-blank filter expression is set
func (q *Query) HasFilter() bool {
	return q != nil && strings.TrimSpace(q.Filter) != ""
}

// PagingQuery is a Query restricted to one page
type PagingQuery struct {
	Query
	Page     int `json:"page"`      // 1-based
	PageSize int `json:"page_size"` // Rows per page
}
