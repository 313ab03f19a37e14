// Package meta describes the shape of a relational table: its columns, primary key and unique keys.
// Values of this package are immutable once loaded.
package meta

// Column describes a single table column
type Column struct {
	Name          string  `json:"name"`
	Type          SQLType `json:"type"`
	TypeName      string  `json:"type_name,omitempty"` // Native type name as reported by the database
	Autoincrement bool    `json:"autoincrement,omitempty"`
	Nullable      bool    `json:"nullable,omitempty"`
	Supported     bool    `json:"supported"`
}

// NewColumn creates a column whose support status follows its type
func NewColumn(name string, t SQLType) Column {
	return Column{Name: name, Type: t, Supported: t.IsKnown()}
}

// PrimaryKey is the ordered set of columns forming the primary key
type PrimaryKey struct {
	ColumnNames []string `json:"column_names"`
}

// Contains reports whether name is part of the key
func (k *PrimaryKey) Contains(name string) bool {
	if k == nil {
		return false
	}
	for _, n := range k.ColumnNames {
		if n == name {
			return true
		}
	}
	return false
}

// UniqueKey is an ordered set of columns with a uniqueness constraint
type UniqueKey struct {
	ColumnNames []string `json:"column_names"`
}

// Table is the metadata of one table
type Table struct {
	Name       string      `json:"name"`
	Columns    []Column    `json:"columns"`
	PrimaryKey *PrimaryKey `json:"primary_key,omitempty"`
	UniqueKeys []UniqueKey `json:"unique_keys,omitempty"`
}

// HasColumn reports whether the table defines at least one column
func (t *Table) HasColumn() bool {
	return t != nil && len(t.Columns) > 0
}

// HasPrimaryKey reports whether a non-empty primary key is declared
func (t *Table) HasPrimaryKey() bool {
	return t.PrimaryKey != nil && len(t.PrimaryKey.ColumnNames) > 0
}

// HasUniqueKey reports whether at least one non-empty unique key is declared
func (t *Table) HasUniqueKey() bool {
	return len(t.UniqueKeys) > 0 && len(t.UniqueKeys[0].ColumnNames) > 0
}

// Column returns the column with the given name, or nil
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnsByName returns the columns for names in the given order, skipping unknown names
func (t *Table) ColumnsByName(names []string) []Column {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		if c := t.Column(n); c != nil {
			cols = append(cols, *c)
		}
	}
	return cols
}

// IsPrimaryKeyColumn reports whether name belongs to the primary key
func (t *Table) IsPrimaryKeyColumn(name string) bool {
	return t.PrimaryKey.Contains(name)
}
