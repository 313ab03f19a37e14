package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nexuscrm/persistence/pkg/meta"
)

func TestValuesEqual(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		a, b  interface{}
		equal bool
	}{
		{"both nil", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"int widths", int64(7), 7, true},
		{"int and numeric string", int64(7), "7", true},
		{"int and numeric bytes", 7, []byte("7"), true},
		{"float32 widening", float32(0.1), "0.1", true},
		{"float and int", 2.0, int64(2), true},
		{"decimal text and float", "10.50", 10.5, true},
		{"different numbers", 1, 2, false},
		{"strings compare as text", "1.0", "1", false},
		{"string and bytes", "abc", []byte("abc"), true},
		{"bool and int", true, int64(1), true},
		{"time instants", at, at.In(time.FixedZone("X", 3600)), true},
		{"different times", at, at.Add(time.Second), false},
		{"fallback formatting", struct{ A int }{1}, struct{ A int }{1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, ValuesEqual(tt.a, tt.b))
			assert.Equal(t, tt.equal, ValuesEqual(tt.b, tt.a))
		})
	}
}

func TestSameColumnValue(t *testing.T) {
	tests := []struct {
		name       string
		columnType meta.SQLType
		origin     interface{}
		update     interface{}
		same       bool
	}{
		{"date string", meta.TypeDate, "2024-01-01", "2024-01-01", true},
		{"date bytes", meta.TypeDate, []byte("2024-01-01"), "2024-01-01", true},
		{"date value", meta.TypeDate, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-01-01", true},
		{"different date", meta.TypeDate, "2024-01-01", "2024-01-02", false},
		{"time string", meta.TypeTime, "10:30:00", "10:30:00", true},
		{"time with zone string", meta.TypeTimeTZ, "10:30:00", "10:30:00", true},
		{"timestamp layouts", meta.TypeTimestamp, "2024-01-01 10:00:00", "2024-01-01T10:00:00Z", true},
		{"timestamp with zone", meta.TypeTimestampTZ, "2024-01-01T11:00:00+01:00", "2024-01-01T10:00:00Z", true},
		{"different timestamp", meta.TypeTimestamp, "2024-01-01 10:00:00", "2024-01-01 10:00:01", false},
		{"integer string", meta.TypeBigInt, "7", 7, true},
		{"text stays text", meta.TypeVarChar, "1.0", "1", false},
		{"unconvertible origin", meta.TypeInteger, "abc", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			column := meta.NewColumn("k", tt.columnType)
			pv, err := DefaultParamValue(&column, tt.update)
			assert.NoError(t, err)
			assert.Equal(t, tt.same, SameColumnValue(&column, pv.Value(), tt.origin))
		})
	}
}
