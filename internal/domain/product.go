package domain

type Product struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Price        float64   `db:"price" json:"price"`
	EndPrice     *float64  `db:"endprice" json:"endprice"`
	EndPriceDate *string   `db:"end_price_date" json:"end_price_date"`
	Stock        int       `db:"stock" json:"stock"`
	Available    bool      `db:"available" json:"available"`
	Active       bool      `db:"active" json:"active"`
	Related      IDList    `db:"related" json:"related"`
	Options      JSONValue `db:"options" json:"options"`
	CategoryID   *int64    `db:"category_id" json:"category_id"`
	CreatedAt    string    `db:"created_at" json:"created_at"`
}

// ProductCard is a product enriched for display: primary image (lowest
// priority, nulls last, then lowest id) plus rating aggregates. It is the
// element shape used by banner maps, similar-product lists and order views.
type ProductCard struct {
	ID           int64    `db:"id" json:"id"`
	Name         string   `db:"name" json:"name"`
	Description  string   `db:"description" json:"description"`
	Price        float64  `db:"price" json:"price"`
	EndPrice     *float64 `db:"endprice" json:"endprice"`
	EndPriceDate *string  `db:"end_price_date" json:"end_price_date"`
	Stock        int      `db:"stock" json:"stock"`
	CategoryID   *int64   `db:"category_id" json:"category_id"`
	CreatedAt    string   `db:"created_at" json:"created_at"`
	PrimaryImage *string  `db:"primary_image" json:"primary_image"`
	AvgRating    float64  `db:"avg_rating" json:"avg_rating"`
	RatingCount  int      `db:"rating_count" json:"rating_count"`
}

// ProductPatch is a partial update: only non-nil fields are written.
type ProductPatch struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Price        *float64   `json:"price"`
	EndPrice     *float64   `json:"endprice"`
	EndPriceDate *string    `json:"end_price_date"`
	Stock        *int       `json:"stock"`
	Available    *bool      `json:"available"`
	Active       *bool      `json:"active"`
	Related      *IDList    `json:"related"`
	Options      *JSONValue `json:"options"`
	CategoryID   *int64     `json:"category_id"`
}
