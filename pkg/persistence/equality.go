package persistence

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/nexuscrm/persistence/pkg/meta"
)

// SameColumnValue reports whether a resolved value equals origin once origin is converted
// the way column values are. A DATE key given as "2024-01-01" thus matches its time.Time.
func SameColumnValue(column *meta.Column, resolved, origin interface{}) bool {
	if ValuesEqual(resolved, origin) {
		return true
	}
	converted, err := DefaultParamValue(column, origin)
	if err != nil || converted.IsLiteral() {
		return false
	}
	return ValuesEqual(resolved, converted.Value())
}

// ValuesEqual compares a resolved parameter value with a value read from the database.
// Numbers compare numerically across Go types and against numeric strings, []byte compares
// with string by content, and times compare by instant. Two strings always compare as text.
func ValuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}

	_, aText := textOf(a)
	_, bText := textOf(b)
	if !(aText && bText) {
		if ra, rb := ratOf(a), ratOf(b); ra != nil && rb != nil {
			return ra.Cmp(rb) == 0
		}
	}

	if sa, ok := textOf(a); ok {
		if sb, ok := textOf(b); ok {
			return bytes.Equal(sa, sb)
		}
	}

	if reflect.DeepEqual(a, b) {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func textOf(v interface{}) ([]byte, bool) {
	switch t := v.(type) {
	case string:
		return []byte(t), true
	case []byte:
		return t, true
	}
	return nil, false
}

func ratOf(v interface{}) *big.Rat {
	r := new(big.Rat)
	switch n := v.(type) {
	case bool:
		if n {
			return r.SetInt64(1)
		}
		return r.SetInt64(0)
	case int:
		return r.SetInt64(int64(n))
	case int8:
		return r.SetInt64(int64(n))
	case int16:
		return r.SetInt64(int64(n))
	case int32:
		return r.SetInt64(int64(n))
	case int64:
		return r.SetInt64(n)
	case uint:
		return r.SetUint64(uint64(n))
	case uint8:
		return r.SetUint64(uint64(n))
	case uint16:
		return r.SetUint64(uint64(n))
	case uint32:
		return r.SetUint64(uint64(n))
	case uint64:
		return r.SetUint64(n)
	case float32:
		return ratOfFloat(float64(n), 32)
	case float64:
		return ratOfFloat(n, 64)
	case string:
		if _, ok := r.SetString(strings.TrimSpace(n)); ok {
			return r
		}
	case []byte:
		if _, ok := r.SetString(strings.TrimSpace(string(n))); ok {
			return r
		}
	}
	return nil
}

func ratOfFloat(f float64, bits int) *big.Rat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	// shortest decimal form, so that float32 widening does not leak noise
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, bits))
	if !ok {
		return nil
	}
	return r
}
