// Package banner implements promotional banner CRUD and the image upload
// pipeline feeding it.
package banner

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/promosite/service-api/internal/banner/asset"
	"github.com/promosite/service-api/internal/banner/entity"
	"github.com/promosite/service-api/pkg/utilities"
)

// MaxUploadSize caps banner image uploads at 2 MB.
const MaxUploadSize = 2 << 20

// Repository is the store contract the service depends on.
type Repository interface {
	Create(ctx context.Context, b *entity.Banner) error
	GetByID(ctx context.Context, id string) (*entity.Banner, error)
	List(ctx context.Context, title string, isActive *bool) ([]*entity.Banner, error)
	Update(ctx context.Context, b *entity.Banner) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

var (
	ErrNotFound         = errors.New("banner not found")
	ErrMissingImage     = errors.New("image is required")
	ErrUnsupportedMedia = errors.New("only image uploads are accepted")
	ErrPayloadTooLarge  = errors.New("image exceeds the upload size limit")
)

// Upload carries a multipart image extracted by the handler.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service composes the asset store and the banner repository.
type Service struct {
	repo   Repository
	assets asset.Store
}

func NewService(repo Repository, assets asset.Store) *Service {
	return &Service{repo: repo, assets: assets}
}

// CreateInput is the banner creation payload.
type CreateInput struct {
	Title   string
	LinkURL *string
	Image   *Upload
}

// Create validates and persists the image, then the banner record.
// isActive defaults to true.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Banner, error) {
	if in.Image == nil {
		return nil, ErrMissingImage
	}
	url, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &entity.Banner{
		ID:        utilities.NewKSUID(),
		Title:     strings.TrimSpace(in.Title),
		LinkURL:   in.LinkURL,
		ImageURL:  url,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns banners filtered by optional title substring and active
// flag, newest first.
func (s *Service) List(ctx context.Context, title string, isActive *bool) ([]*entity.Banner, error) {
	banners, err := s.repo.List(ctx, strings.TrimSpace(title), isActive)
	if err != nil {
		return nil, err
	}
	if banners == nil {
		banners = []*entity.Banner{}
	}
	return banners, nil
}

// UpdateInput lists every optional banner field. Only non-nil fields are
// applied; a non-nil Image replaces the stored reference.
type UpdateInput struct {
	Title    *string
	LinkURL  *string
	IsActive *bool
	Image    *Upload
}

// Update applies a partial update. The previous asset is left in place
// when the image is replaced.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.Banner, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.LinkURL != nil {
		b.LinkURL = in.LinkURL
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if in.Image != nil {
		url, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		b.ImageURL = url
	}
	b.UpdatedAt = time.Now().UTC()

	rows, err := s.repo.Update(ctx, b)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return b, nil
}

// Delete removes the banner record. The underlying asset is not removed.
func (s *Service) Delete(ctx context.Context, id string) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) storeImage(ctx context.Context, up *Upload) (string, error) {
	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", ErrUnsupportedMedia
	}
	if len(up.Data) == 0 {
		return "", ErrMissingImage
	}
	if len(up.Data) > MaxUploadSize {
		return "", ErrPayloadTooLarge
	}
	return s.assets.Save(ctx, asset.NewObjectName(up.Filename), up.ContentType, up.Data)
}
