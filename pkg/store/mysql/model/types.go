package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RawJSON is a custom type for JSON columns holding an opaque document
type RawJSON json.RawMessage

// Scan implements sql.Scanner interface
func (j *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan RawJSON: unsupported type %T", value)
	}

	// the driver reuses its buffer between rows
	*j = append(RawJSON(nil), bytes...)
	return nil
}

// Value implements driver.Valuer interface
func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// MarshalJSON embeds the document as-is
func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON keeps a copy of the document
func (j *RawJSON) UnmarshalJSON(data []byte) error {
	*j = append(RawJSON(nil), data...)
	return nil
}
