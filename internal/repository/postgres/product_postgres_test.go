package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/repository"
)

var productCols = []string{"id", "description", "price", "image_url", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func TestProductPostgres_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("insert", func(t *testing.T) {
		p := &model.Product{Description: "Game Boy Color", Price: 129.99}
		mock.ExpectQuery("INSERT INTO products").
			WithArgs(p.Description, p.Price, "").
			WillReturnRows(sqlmock.NewRows(productCols).AddRow(1, p.Description, p.Price, "", now, now))

		out, err := repo.Save(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, 1, out.ID)
		assert.Equal(t, 129.99, out.Price)
		assert.Equal(t, now, out.CreatedAt)
	})

	t.Run("update", func(t *testing.T) {
		p := &model.Product{ID: 1, Description: "NES", Price: 199, ImageURL: "products/1/a.jpg"}
		mock.ExpectQuery("UPDATE products SET").
			WithArgs(1, p.Description, p.Price, p.ImageURL).
			WillReturnRows(sqlmock.NewRows(productCols).AddRow(1, p.Description, p.Price, p.ImageURL, now, now))

		out, err := repo.Save(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, "products/1/a.jpg", out.ImageURL)
	})

	t.Run("update missing row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE products SET").
			WithArgs(42, "x", 1.0, "").
			WillReturnRows(sqlmock.NewRows(productCols))

		out, err := repo.Save(ctx, &model.Product{ID: 42, Description: "x", Price: 1})

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, out)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductPostgres_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ?").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows(productCols).AddRow(7, "Radio", 89.0, "", time.Now(), time.Now()))

		p, err := repo.FindByID(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, 7, p.ID)
		assert.Equal(t, "Radio", p.Description)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ?").
			WithArgs(8).
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, 8)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, p)
	})
}

func TestProductPostgres_ExistsByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductPostgres(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByID(context.Background(), 3)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductPostgres_FindAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductPostgres(db)
	ctx := context.Background()

	t.Run("paged", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery(regexp.QuoteMeta("FROM products ORDER BY id LIMIT $1 OFFSET $2")).
			WithArgs(2, 0).
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow(1, "a", 1.0, "", time.Now(), time.Now()).
				AddRow(2, "b", 2.0, "", time.Now(), time.Now()))

		res, err := repo.FindAll(ctx, repository.PageQuery{Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Len(t, res.Items, 2)
	})

	t.Run("unpaged with negative offset", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta("FROM products ORDER BY id OFFSET $1")).
			WithArgs(0).
			WillReturnRows(sqlmock.NewRows(productCols))

		res, err := repo.FindAll(ctx, repository.PageQuery{Offset: -5})

		require.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
			WillReturnError(errors.New("conn reset"))

		res, err := repo.FindAll(ctx, repository.PageQuery{Limit: 10})

		assert.EqualError(t, err, "conn reset")
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductPostgres_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductPostgres(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.Count(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestProductPostgres_DeleteByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductPostgres(db)

	mock.ExpectExec("DELETE FROM products WHERE id = ?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByID(context.Background(), 5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}), repository.ErrDuplicate)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), repository.ErrInvalidReference)

	other := &pgconn.PgError{Code: "42P01"}
	assert.Same(t, other, translate(other))
}
