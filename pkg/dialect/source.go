package dialect

import (
	"database/sql/driver"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// Source resolves the dialect to use for a connection
type Source interface {
	GetDialect(exec interface{}) (Dialect, error)
}

// DetectingSource returns Preferred when set, otherwise detects the dialect from the
// connection's driver, otherwise returns Fallback
type DetectingSource struct {
	Preferred Dialect
	Fallback  Dialect
}

// NewSource creates a source for a configured dialect name; an empty name means detection
// with no fallback
func NewSource(name string) (*DetectingSource, error) {
	if name == "" {
		return &DetectingSource{}, nil
	}
	d, err := ByName(name)
	if err != nil {
		return nil, err
	}
	return &DetectingSource{Preferred: d}, nil
}

// GetDialect implements Source
func (s *DetectingSource) GetDialect(exec interface{}) (Dialect, error) {
	if s.Preferred != nil {
		return s.Preferred, nil
	}
	if d := Detect(exec); d != nil {
		return d, nil
	}
	if s.Fallback != nil {
		return s.Fallback, nil
	}
	return nil, fmt.Errorf("can not detect dialect for connection %T", exec)
}

// Detect returns the dialect matching the driver behind exec, or nil.
// Only *sql.DB exposes its driver; transactions and single connections need an explicit dialect.
func Detect(exec interface{}) Dialect {
	withDriver, ok := exec.(interface{ Driver() driver.Driver })
	if !ok {
		return nil
	}
	switch withDriver.Driver().(type) {
	case *mysql.MySQLDriver, mysql.MySQLDriver:
		return NewMySQL()
	}
	return nil
}
