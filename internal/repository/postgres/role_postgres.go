package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storefront/internal/model"
	"storefront/internal/repository"
)

const roleColumns = "id, name, created_at, updated_at"

// RolePostgres is a PostgreSQL implementation of repository.RoleRepository.
type RolePostgres struct {
	table[model.Role]
}

// NewRolePostgres creates a new RolePostgres repository.
func NewRolePostgres(db *sqlx.DB) *RolePostgres {
	return &RolePostgres{table[model.Role]{db: db, name: "roles", columns: roleColumns}}
}

var _ repository.RoleRepository = (*RolePostgres)(nil)

// Save inserts a new role when ID is zero, otherwise renames the existing row.
func (r *RolePostgres) Save(ctx context.Context, role *model.Role) (*model.Role, error) {
	var row *sqlx.Row
	if role.ID == 0 {
		const q = `INSERT INTO roles (name) VALUES ($1) RETURNING ` + roleColumns
		row = r.db.QueryRowxContext(ctx, q, role.Name)
	} else {
		const q = `UPDATE roles SET name = $2, updated_at = now() WHERE id = $1 RETURNING ` + roleColumns
		row = r.db.QueryRowxContext(ctx, q, role.ID, role.Name)
	}

	var out model.Role
	if err := row.StructScan(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindByName fetches a single role by its exact name.
func (r *RolePostgres) FindByName(ctx context.Context, name string) (*model.Role, error) {
	const q = `SELECT ` + roleColumns + ` FROM roles WHERE name = $1`
	var out model.Role
	if err := r.db.GetContext(ctx, &out, q, name); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}
