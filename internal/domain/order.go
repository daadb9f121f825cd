package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Order struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	Items        OrderItems `db:"items" json:"items"`
	Phone        string     `db:"phone" json:"phone"`
	Address      string     `db:"address" json:"address"`
	Status       string     `db:"status" json:"status"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    string     `db:"created_at" json:"created_at"`
	VoucherInfo  JSONValue  `db:"voucher_info" json:"voucher_info"`
	DeliveryCost *float64   `db:"delivery_cost" json:"delivery_cost"`
	VoucherID    *int64     `db:"voucher_id" json:"voucher_id"`
}

// OrderWithUser adds the buyer's name to an order row (admin detail view).
type OrderWithUser struct {
	Order
	UserName string `db:"user_name" json:"user_name"`
}

// OrderItem is one line of an order. Beyond the product reference and
// quantity the client may attach arbitrary display fields (name, price,
// selectedOption, ...) which are carried through untouched.
type OrderItem map[string]any

// ProductID returns the item's product reference, taken from "product_id"
// or falling back to "id".
func (it OrderItem) ProductID() (int64, bool) {
	if id, ok := numField(it, "product_id"); ok {
		return id, true
	}
	return numField(it, "id")
}

// Quantity returns the item's quantity, 0 if absent or non-numeric.
func (it OrderItem) Quantity() (int64, bool) {
	return numField(it, "quantity")
}

func numField(m map[string]any, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
	case int64:
		return v, true
	}
	return 0, false
}

// OrderItems is the order's item list stored as a JSON column.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]OrderItem(o))
	return string(b), err
}

func (o *OrderItems) Scan(src any) error {
	var b []byte
	switch s := src.(type) {
	case nil:
		*o = nil
		return nil
	case string:
		b = []byte(s)
	case []byte:
		b = s
	default:
		return fmt.Errorf("domain: cannot scan %T into OrderItems", src)
	}
	if len(b) == 0 {
		*o = nil
		return nil
	}
	return json.Unmarshal(b, (*[]OrderItem)(o))
}
