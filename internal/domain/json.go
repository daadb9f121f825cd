package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONValue carries an opaque JSON column (e.g. product options, voucher
// snapshots) between the store and the API without reshaping it.
type JSONValue json.RawMessage

func (v JSONValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

func (v *JSONValue) UnmarshalJSON(b []byte) error {
	*v = append((*v)[:0], b...)
	return nil
}

func (v JSONValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return string(v), nil
}

func (v *JSONValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = nil
		return nil
	case string:
		*v = JSONValue(s)
		return nil
	case []byte:
		*v = append((*v)[:0], s...)
		return nil
	}
	return fmt.Errorf("domain: cannot scan %T into JSONValue", src)
}

// IDList is an ordered set of row ids stored as a JSON array column
// (product.related).
type IDList []int64

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int64(l))
	return string(b), err
}

func (l *IDList) Scan(src any) error {
	var b []byte
	switch s := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		b = []byte(s)
	case []byte:
		b = s
	default:
		return fmt.Errorf("domain: cannot scan %T into IDList", src)
	}
	if len(b) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(b, (*[]int64)(l))
}
