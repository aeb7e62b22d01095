package dump

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the text form of temporal values, matching the
// 'YYYY-MM-DD HH24:MI:SS' mask used in TO_DATE literals.
const DateLayout = "2006-01-02 15:04:05"

var errNotBinary = errors.New("value is not binary")

// Cell holds one value read from a row.
type Cell struct {
	value any
}

// NewCell wraps a value scanned from a row.
func NewCell(v any) Cell {
	return Cell{value: v}
}

// resolve unwraps driver.Valuer implementations into their plain value.
func (c Cell) resolve() (any, error) {
	if valuer, ok := c.value.(driver.Valuer); ok {
		v, err := valuer.Value()
		if err != nil {
			return nil, fmt.Errorf("resolve %T: %w", c.value, err)
		}
		return v, nil
	}
	return c.value, nil
}

// IsNull reports whether the cell is NULL. It fails when the value cannot
// be resolved.
func (c Cell) IsNull() (bool, error) {
	v, err := c.resolve()
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

// Text returns the text form of the value. Call it only after IsNull
// succeeded.
func (c Cell) Text() string {
	v, _ := c.resolve()
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return v.Format(DateLayout)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bytes returns the raw bytes of a binary value.
func (c Cell) Bytes() ([]byte, error) {
	v, err := c.resolve()
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", errNotBinary, v)
	}
	return b, nil
}
