package domain

type Category struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Image    string `db:"image" json:"image"`
	Active   bool   `db:"active" json:"active"`
	Priority int    `db:"priority" json:"priority"`
}

// CategorySummary is the shape a category takes inside a resolved banner map.
type CategorySummary struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Image string `db:"image" json:"image"`
}

type Image struct {
	ID        int64  `db:"id" json:"id"`
	ProductID *int64 `db:"product_id" json:"product_id"`
	Link      string `db:"link" json:"link"`
	Priority  *int64 `db:"priority" json:"priority"`
}

type Rating struct {
	ID        int64   `db:"id" json:"id"`
	UserID    int64   `db:"user_id" json:"user_id"`
	ProductID int64   `db:"product_id" json:"product_id"`
	Value     float64 `db:"value" json:"value"`
}
