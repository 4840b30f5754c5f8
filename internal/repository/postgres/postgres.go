package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"storefront/internal/repository"
)

// PostgreSQL SQLSTATE codes mapped to repository errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// translate maps driver errors to the backend-neutral repository errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrInvalidReference, pgErr.ConstraintName)
		}
	}
	return err
}

// table implements the read and delete half of repository.CrudRepository for one table.
// Entity-specific repositories embed it and provide Save.
type table[T any] struct {
	db      *sqlx.DB
	name    string
	columns string
}

func (t table[T]) FindByID(ctx context.Context, id int) (*T, error) {
	var out T
	q := "SELECT " + t.columns + " FROM " + t.name + " WHERE id = $1"
	if err := t.db.GetContext(ctx, &out, q, id); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (t table[T]) ExistsByID(ctx context.Context, id int) (bool, error) {
	var exists bool
	q := "SELECT EXISTS (SELECT 1 FROM " + t.name + " WHERE id = $1)"
	if err := t.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, err
	}
	return exists, nil
}

func (t table[T]) Count(ctx context.Context) (int, error) {
	var total int
	if err := t.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM "+t.name); err != nil {
		return 0, err
	}
	return total, nil
}

// FindAll returns rows using LIMIT/OFFSET pagination and a total count.
func (t table[T]) FindAll(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[T], error) {
	total, err := t.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0)
	q, args := t.pageQuery(pq)
	if err := t.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}

	return &repository.PageResult[T]{
		Items: items,
		Total: total,
	}, nil
}

func (t table[T]) pageQuery(pq repository.PageQuery) (string, []any) {
	offset := pq.Offset
	if offset < 0 {
		offset = 0
	}
	q := "SELECT " + t.columns + " FROM " + t.name + " ORDER BY id"
	if pq.Limit > 0 {
		return q + " LIMIT $1 OFFSET $2", []any{pq.Limit, offset}
	}
	return q + " OFFSET $1", []any{offset}
}

// DeleteByID removes a row by ID. It does not return an error if the row does not exist.
func (t table[T]) DeleteByID(ctx context.Context, id int) error {
	_, err := t.db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = $1", id)
	return translate(err)
}
