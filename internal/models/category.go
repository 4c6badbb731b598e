package models

// Category is a fixed enumeration identifying a streaming/service platform.
type Category struct {
	ID       int    `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"isActive"`
}
