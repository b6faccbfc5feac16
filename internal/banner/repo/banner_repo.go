package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/promosite/service-api/internal/banner/entity"
)

// BannerRepo provides data access for the banners table using sqlx.
type BannerRepo struct {
	db *sqlx.DB
}

func NewBannerRepo(db *sqlx.DB) *BannerRepo { return &BannerRepo{db: db} }

const bannerColumns = `id, title, link_url, image_url, is_active, created_at, updated_at`

func (r *BannerRepo) Create(ctx context.Context, b *entity.Banner) error {
	const q = `INSERT INTO banners (id, title, link_url, image_url, is_active, created_at, updated_at)
		VALUES (:id, :title, :link_url, :image_url, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, q, b)
	return err
}

func (r *BannerRepo) GetByID(ctx context.Context, id string) (*entity.Banner, error) {
	var b entity.Banner
	if err := r.db.GetContext(ctx, &b, `SELECT `+bannerColumns+` FROM banners WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns banners newest-first. A non-empty title filters with a
// case-insensitive substring match; a non-nil isActive filters exactly.
func (r *BannerRepo) List(ctx context.Context, title string, isActive *bool) ([]*entity.Banner, error) {
	q := `SELECT ` + bannerColumns + ` FROM banners WHERE 1=1`
	args := []any{}
	if title != "" {
		args = append(args, "%"+title+"%")
		q += ` AND title ILIKE $1`
	}
	if isActive != nil {
		args = append(args, *isActive)
		if len(args) == 2 {
			q += ` AND is_active = $2`
		} else {
			q += ` AND is_active = $1`
		}
	}
	q += ` ORDER BY created_at DESC`

	var out []*entity.Banner
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BannerRepo) Update(ctx context.Context, b *entity.Banner) (int64, error) {
	const q = `UPDATE banners SET title=:title, link_url=:link_url, image_url=:image_url,
		is_active=:is_active, updated_at=:updated_at WHERE id=:id`
	res, err := r.db.NamedExecContext(ctx, q, b)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BannerRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banners WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
