package banner

import (
	"bytes"
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promosite/service-api/internal/banner/entity"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	banners map[string]*entity.Banner
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{banners: map[string]*entity.Banner{}}
}

func (f *fakeRepo) Create(ctx context.Context, b *entity.Banner) error {
	cp := *b
	f.banners[b.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*entity.Banner, error) {
	b, ok := f.banners[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, title string, isActive *bool) ([]*entity.Banner, error) {
	var out []*entity.Banner
	for _, b := range f.banners {
		if title != "" && !containsFold(b.Title, title) {
			continue
		}
		if isActive != nil && b.IsActive != *isActive {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, b *entity.Banner) (int64, error) {
	if _, ok := f.banners[b.ID]; !ok {
		return 0, nil
	}
	cp := *b
	f.banners[b.ID] = &cp
	return 1, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := f.banners[id]; !ok {
		return 0, nil
	}
	delete(f.banners, id)
	return 1, nil
}

func containsFold(haystack, needle string) bool {
	return bytes.Contains(bytes.ToLower([]byte(haystack)), bytes.ToLower([]byte(needle)))
}

// fakeStore records saved assets without touching disk.
type fakeStore struct {
	saved []string
}

func (f *fakeStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	f.saved = append(f.saved, name)
	return "/uploads/banners/" + name, nil
}

func pngUpload(size int) *Upload {
	return &Upload{Filename: "promo.png", ContentType: "image/png", Data: bytes.Repeat([]byte{0x89}, size)}
}

func TestCreate_MissingImage(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeStore{})

	_, err := svc.Create(context.Background(), CreateInput{Title: "Promo"})
	assert.ErrorIs(t, err, ErrMissingImage)
	assert.Empty(t, repo.banners, "no record should be persisted")
}

func TestCreate_RejectsNonImage(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &fakeStore{})
	up := &Upload{Filename: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}

	_, err := svc.Create(context.Background(), CreateInput{Title: "Promo", Image: up})
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestCreate_RejectsOversizedImage(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &fakeStore{})

	_, err := svc.Create(context.Background(), CreateInput{Title: "Promo", Image: pngUpload(MaxUploadSize + 1)})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestCreate_Success_DefaultsActiveAndKeepsExtension(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	store := &fakeStore{}
	svc := NewService(repo, store)

	b, err := svc.Create(context.Background(), CreateInput{Title: "Promo", Image: pngUpload(128)})
	require.NoError(t, err)
	assert.True(t, b.IsActive)
	assert.NotEmpty(t, b.ID)
	require.Len(t, store.saved, 1)
	assert.Regexp(t, `\.png$`, store.saved[0])
	assert.Contains(t, b.ImageURL, store.saved[0])
}

func TestList_ActiveFilterExcludesInactive(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeStore{})
	ctx := context.Background()

	active, err := svc.Create(ctx, CreateInput{Title: "Active", Image: pngUpload(8)})
	require.NoError(t, err)
	inactive, err := svc.Create(ctx, CreateInput{Title: "Inactive", Image: pngUpload(8)})
	require.NoError(t, err)

	off := false
	_, err = svc.Update(ctx, inactive.ID, UpdateInput{IsActive: &off})
	require.NoError(t, err)

	on := true
	got, err := svc.List(ctx, "", &on)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active.ID, got[0].ID)
}

func TestList_TitleSubstringCaseInsensitive(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeStore{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Title: "Summer Sale", Image: pngUpload(8)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Title: "Winter", Image: pngUpload(8)})
	require.NoError(t, err)

	got, err := svc.List(ctx, "summer", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Summer Sale", got[0].Title)
}

func TestUpdate_PartialLeavesOtherFields(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeStore{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Promo", Image: pngUpload(8)})
	require.NoError(t, err)

	link := "https://example.com/deal"
	got, err := svc.Update(ctx, created.ID, UpdateInput{LinkURL: &link})
	require.NoError(t, err)
	require.NotNil(t, got.LinkURL)
	assert.Equal(t, link, *got.LinkURL)
	assert.Equal(t, "Promo", got.Title)
	assert.Equal(t, created.ImageURL, got.ImageURL)
}

func TestUpdate_NewImageReplacesReference(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	store := &fakeStore{}
	svc := NewService(repo, store)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Promo", Image: pngUpload(8)})
	require.NoError(t, err)

	got, err := svc.Update(ctx, created.ID, UpdateInput{Image: pngUpload(16)})
	require.NoError(t, err)
	assert.NotEqual(t, created.ImageURL, got.ImageURL)
	assert.Len(t, store.saved, 2)
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &fakeStore{})
	title := "x"
	_, err := svc.Update(context.Background(), "missing", UpdateInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &fakeStore{})
	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_EmptyReturnsSliceNotNil(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &fakeStore{})
	got, err := svc.List(context.Background(), "", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
