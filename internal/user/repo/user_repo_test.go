package repo

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promosite/service-api/internal/user/entity"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// bind as postgres so named queries rebind to $N placeholders
	return sqlx.NewDb(db, "postgres"), mock
}

func TestGetByEmail_Found(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "created_at", "updated_at"}).
		AddRow("u1", "Ana", "ana@x.com", "119999", "hash", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, phone, password_hash, created_at, updated_at FROM users WHERE email=$1`)).
		WithArgs("ana@x.com").
		WillReturnRows(rows)

	u, err := r.GetByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Ana", u.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, phone, password_hash, created_at, updated_at FROM users WHERE email=$1`)).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := r.GetByEmail(context.Background(), "ghost@x.com")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsertsRow(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	now := time.Now()
	u := &entity.User{ID: "u1", Name: "Ana", Email: "ana@x.com", Phone: "", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("u1", "Ana", "ana@x.com", "", "hash", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Create(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ReportsAffectedRows(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id=$1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := r.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}
