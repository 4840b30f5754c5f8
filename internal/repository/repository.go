package repository

import (
	"context"

	"storefront/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages: postgres (sqlx over pgx) and gormrepo (gorm over MySQL).

// CrudRepository is the generic data access contract for entities keyed by an integer ID.
// No business logic here, strictly persistence operations.
type CrudRepository[T any] interface {
	// Save inserts the entity when its ID is zero and updates it otherwise.
	// Returns the stored entity including values set by the database.
	// Updating a missing row returns ErrNotFound.
	Save(ctx context.Context, ent *T) (*T, error)

	// FindByID returns the entity with the given ID or ErrNotFound.
	FindByID(ctx context.Context, id int) (*T, error)

	// ExistsByID reports whether a row with the given ID exists.
	ExistsByID(ctx context.Context, id int) (bool, error)

	// FindAll returns a page of entities ordered by ID and the total row count.
	FindAll(ctx context.Context, pq PageQuery) (*PageResult[T], error)

	// Count returns the number of stored entities.
	Count(ctx context.Context) (int, error)

	// DeleteByID removes an entity by ID. It returns nil if the row was deleted or did not exist.
	DeleteByID(ctx context.Context, id int) error
}

// UserRepository stores users together with their role links.
type UserRepository interface {
	CrudRepository[model.User]

	// FindByUsername returns the user with exactly this username or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// RoleRepository stores roles.
type RoleRepository interface {
	CrudRepository[model.Role]

	// FindByName returns the role with exactly this name or ErrNotFound.
	FindByName(ctx context.Context, name string) (*model.Role, error)
}

// ProductRepository stores products.
type ProductRepository interface {
	CrudRepository[model.Product]
}

// PageQuery holds limit/offset pagination parameters.
// A non-positive Limit returns all rows from Offset on.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
