package entity

import "time"

// Lead types accepted by the contact form.
const (
	TypeContact   = "contact"
	TypeAffiliate = "affiliate"
)

// Contact represents an inbound lead row in the `contacts` table. Leads
// are never mutated or deleted by the system.
type Contact struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
