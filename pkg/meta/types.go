package meta

import "strings"

// SQLType is the semantic type tag of a column
type SQLType int

const (
	TypeOther SQLType = iota
	TypeNull

	// Integer kinds
	TypeBit
	TypeTinyInt
	TypeSmallInt
	TypeInteger
	TypeBigInt

	// Floating kinds
	TypeReal
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeNumeric

	// Textual kinds
	TypeChar
	TypeVarChar
	TypeLongVarChar
	TypeNChar
	TypeNVarChar
	TypeClob

	// Binary kinds
	TypeBinary
	TypeVarBinary
	TypeLongVarBinary
	TypeBlob

	// Temporal kinds
	TypeDate
	TypeTime
	TypeTimeTZ
	TypeTimestamp
	TypeTimestampTZ

	TypeBoolean
)

var typeNames = map[SQLType]string{
	TypeOther:         "OTHER",
	TypeNull:          "NULL",
	TypeBit:           "BIT",
	TypeTinyInt:       "TINYINT",
	TypeSmallInt:      "SMALLINT",
	TypeInteger:       "INTEGER",
	TypeBigInt:        "BIGINT",
	TypeReal:          "REAL",
	TypeFloat:         "FLOAT",
	TypeDouble:        "DOUBLE",
	TypeDecimal:       "DECIMAL",
	TypeNumeric:       "NUMERIC",
	TypeChar:          "CHAR",
	TypeVarChar:       "VARCHAR",
	TypeLongVarChar:   "LONGVARCHAR",
	TypeNChar:         "NCHAR",
	TypeNVarChar:      "NVARCHAR",
	TypeClob:          "CLOB",
	TypeBinary:        "BINARY",
	TypeVarBinary:     "VARBINARY",
	TypeLongVarBinary: "LONGVARBINARY",
	TypeBlob:          "BLOB",
	TypeDate:          "DATE",
	TypeTime:          "TIME",
	TypeTimeTZ:        "TIME WITH TIME ZONE",
	TypeTimestamp:     "TIMESTAMP",
	TypeTimestampTZ:   "TIMESTAMP WITH TIME ZONE",
	TypeBoolean:       "BOOLEAN",
}

func (t SQLType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "OTHER"
}

// IsInteger reports whether the type holds whole numbers
func (t SQLType) IsInteger() bool {
	return t >= TypeBit && t <= TypeBigInt
}

// IsFloating reports whether the type holds fractional numbers
func (t SQLType) IsFloating() bool {
	return t >= TypeReal && t <= TypeNumeric
}

// IsNumeric reports whether the type is an integer or floating kind
func (t SQLType) IsNumeric() bool {
	return t.IsInteger() || t.IsFloating()
}

// IsText reports whether the type holds character data
func (t SQLType) IsText() bool {
	return t >= TypeChar && t <= TypeClob
}

// IsBinary reports whether the type holds byte data
func (t SQLType) IsBinary() bool {
	return t >= TypeBinary && t <= TypeBlob
}

// IsTemporal reports whether the type holds dates or times
func (t SQLType) IsTemporal() bool {
	return t >= TypeDate && t <= TypeTimestampTZ
}

// IsLargeObject reports whether values of the type are usually streamed
func (t SQLType) IsLargeObject() bool {
	return t == TypeClob || t == TypeBlob || t == TypeLongVarBinary || t == TypeLongVarChar
}

// IsKnown reports whether the type belongs to the recognized set
func (t SQLType) IsKnown() bool {
	return t != TypeOther
}

// TypeFromName converts a database type name (as reported by information_schema or a driver)
// to its semantic type. Unrecognized names map to TypeOther.
func TypeFromName(name string) SQLType {
	full := strings.ToUpper(strings.TrimSpace(name))

	switch {
	case strings.HasPrefix(full, "TINYINT(1)"):
		return TypeBoolean
	case strings.HasPrefix(full, "CHARACTER VARYING"):
		return TypeVarChar
	case strings.HasPrefix(full, "DOUBLE PRECISION"):
		return TypeDouble
	case strings.HasPrefix(full, "TIMESTAMP") && strings.Contains(full, "WITH TIME ZONE"):
		return TypeTimestampTZ
	case strings.HasPrefix(full, "TIME") && strings.Contains(full, "WITH TIME ZONE"):
		return TypeTimeTZ
	}

	n := full
	if i := strings.IndexAny(n, "( "); i >= 0 {
		n = n[:i]
	}

	switch n {
	case "BIT":
		return TypeBit
	case "TINYINT":
		return TypeTinyInt
	case "SMALLINT", "INT2", "MEDIUMINT", "YEAR":
		return TypeSmallInt
	case "INT", "INTEGER", "INT4", "SERIAL":
		return TypeInteger
	case "BIGINT", "INT8", "BIGSERIAL":
		return TypeBigInt
	case "REAL", "FLOAT4":
		return TypeReal
	case "FLOAT":
		return TypeFloat
	case "DOUBLE", "FLOAT8":
		return TypeDouble
	case "DECIMAL", "DEC":
		return TypeDecimal
	case "NUMERIC":
		return TypeNumeric
	case "CHAR", "CHARACTER", "BPCHAR":
		return TypeChar
	case "VARCHAR", "TINYTEXT", "ENUM", "SET":
		return TypeVarChar
	case "TEXT", "MEDIUMTEXT":
		return TypeLongVarChar
	case "NCHAR":
		return TypeNChar
	case "NVARCHAR":
		return TypeNVarChar
	case "LONGTEXT", "CLOB", "JSON":
		return TypeClob
	case "BINARY":
		return TypeBinary
	case "VARBINARY", "BYTEA", "TINYBLOB":
		return TypeVarBinary
	case "MEDIUMBLOB":
		return TypeLongVarBinary
	case "BLOB", "LONGBLOB":
		return TypeBlob
	case "DATE":
		return TypeDate
	case "TIME":
		return TypeTime
	case "TIMETZ":
		return TypeTimeTZ
	case "DATETIME", "TIMESTAMP":
		return TypeTimestamp
	case "TIMESTAMPTZ":
		return TypeTimestampTZ
	case "BOOL", "BOOLEAN":
		return TypeBoolean
	case "NULL":
		return TypeNull
	}
	return TypeOther
}
