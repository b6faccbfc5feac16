package entity

import "time"

// Banner represents a promotional banner row in the `banners` table.
type Banner struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	LinkURL   *string   `db:"link_url" json:"linkUrl"`
	ImageURL  string    `db:"image_url" json:"imageUrl"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
