package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storefront/internal/model"
	"storefront/internal/repository"
)

const userColumns = "id, username, encrypted_password, enabled, created_at, updated_at"

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// Every user it returns has its roles loaded from user_roles.
type UserPostgres struct {
	table[model.User]
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sqlx.DB) *UserPostgres {
	return &UserPostgres{table[model.User]{db: db, name: "users", columns: userColumns}}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// Save upserts the user row and replaces its role links with u.Roles in one transaction.
// Roles are matched by ID; an unknown role ID yields repository.ErrInvalidReference.
func (r *UserPostgres) Save(ctx context.Context, u *model.User) (*model.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var row *sqlx.Row
	if u.ID == 0 {
		const q = `
			INSERT INTO users (username, encrypted_password, enabled)
			VALUES ($1, $2, $3)
			RETURNING ` + userColumns
		row = tx.QueryRowxContext(ctx, q, u.Username, u.EncryptedPassword, u.Enabled)
	} else {
		const q = `
			UPDATE users
			SET username = $2, encrypted_password = $3, enabled = $4, updated_at = now()
			WHERE id = $1
			RETURNING ` + userColumns
		row = tx.QueryRowxContext(ctx, q, u.ID, u.Username, u.EncryptedPassword, u.Enabled)
	}

	var out model.User
	if err := row.StructScan(&out); err != nil {
		return nil, translate(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, out.ID); err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(u.Roles))
	for _, role := range u.Roles {
		if _, dup := seen[role.ID]; dup {
			continue
		}
		seen[role.ID] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, out.ID, role.ID,
		); err != nil {
			return nil, translate(err)
		}
	}

	if out.Roles, err = rolesOf(ctx, tx, out.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single user with roles.
func (r *UserPostgres) FindByID(ctx context.Context, id int) (*model.User, error) {
	u, err := r.table.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Roles, err = rolesOf(ctx, r.db, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByUsername fetches a single user by exact username.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	var u model.User
	if err := r.db.GetContext(ctx, &u, q, username); err != nil {
		return nil, translate(err)
	}
	var err error
	if u.Roles, err = rolesOf(ctx, r.db, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindAll returns a page of users, loading roles for the whole page in one query.
func (r *UserPostgres) FindAll(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	res, err := r.table.FindAll(ctx, pq)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return res, nil
	}

	ids := make([]int, len(res.Items))
	for i := range res.Items {
		ids[i] = res.Items[i].ID
		res.Items[i].Roles = []model.Role{}
	}

	q, args, err := sqlx.In(`
		SELECT ur.user_id, r.id, r.name, r.created_at, r.updated_at
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id IN (?)
		ORDER BY ur.user_id, r.id`, ids)
	if err != nil {
		return nil, err
	}

	var links []struct {
		UserID int `db:"user_id"`
		model.Role
	}
	if err := r.db.SelectContext(ctx, &links, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	byUser := make(map[int]int, len(res.Items))
	for i := range res.Items {
		byUser[res.Items[i].ID] = i
	}
	for _, l := range links {
		if i, ok := byUser[l.UserID]; ok {
			res.Items[i].Roles = append(res.Items[i].Roles, l.Role)
		}
	}
	return res, nil
}

func rolesOf(ctx context.Context, q sqlx.QueryerContext, userID int) ([]model.Role, error) {
	roles := make([]model.Role, 0)
	err := sqlx.SelectContext(ctx, q, &roles, `
		SELECT r.id, r.name, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	return roles, nil
}
