package models

// Brand is a simple (id, name) lookup referenced by products.
type Brand struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Category is a simple (id, name) lookup referenced by products.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
