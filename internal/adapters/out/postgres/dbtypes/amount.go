// Package dbtypes holds column types shared by the gorm repositories.
package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Amount stores a uint64 in a numeric(20,0) column. database/sql cannot pass
// uint64 values with the high bit set, so the value travels as decimal text.
type Amount uint64

func (a Amount) Value() (driver.Value, error) {
	return strconv.FormatUint(uint64(a), 10), nil
}

func (a *Amount) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		*a = 0
		return nil
	case []byte:
		text = string(v)
	case string:
		text = v
	case int64:
		if v < 0 {
			return fmt.Errorf("amount: negative value %d", v)
		}
		*a = Amount(v)
		return nil
	default:
		return fmt.Errorf("amount: unsupported source type %T", src)
	}

	parsed, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(parsed)
	return nil
}
