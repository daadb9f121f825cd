package domain

type Voucher struct {
	ID         int64    `db:"id" json:"id"`
	Name       string   `db:"name" json:"name"`
	Code       string   `db:"code" json:"code"`
	MinValue   *float64 `db:"min_value" json:"min_value"`
	MaxValue   *float64 `db:"max_value" json:"max_value"`
	ExpireDate string   `db:"expire_date" json:"expire_date"`
	Type       string   `db:"type" json:"type"`
	Active     bool     `db:"active" json:"active"`
	IsFirst    bool     `db:"is_first" json:"is_first"`
	NoOfUsage  *int64   `db:"no_of_usage" json:"no_of_usage"`
	Value      float64  `db:"value" json:"value"`
	CreatedAt  string   `db:"created_at" json:"created_at"`
}

// VoucherPatch is a partial update for a voucher row.
type VoucherPatch struct {
	Name       *string  `json:"name"`
	Code       *string  `json:"code"`
	MinValue   *float64 `json:"min_value"`
	MaxValue   *float64 `json:"max_value"`
	ExpireDate *string  `json:"expire_date"`
	Type       *string  `json:"type"`
	Active     *bool    `json:"active"`
	IsFirst    *bool    `json:"is_first"`
	NoOfUsage  *int64   `json:"no_of_usage"`
	Value      *float64 `json:"value"`
}
