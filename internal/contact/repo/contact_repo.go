package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/promosite/service-api/internal/contact/entity"
)

// ContactRepo provides data access for the contacts table using sqlx.
type ContactRepo struct {
	db *sqlx.DB
}

func NewContactRepo(db *sqlx.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	const q = `INSERT INTO contacts (id, name, email, phone, message, type, created_at)
		VALUES (:id, :name, :email, :phone, :message, :type, :created_at)`
	_, err := r.db.NamedExecContext(ctx, q, c)
	return err
}
