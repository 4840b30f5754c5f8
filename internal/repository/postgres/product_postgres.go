package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storefront/internal/model"
	"storefront/internal/repository"
)

const productColumns = "id, description, price, image_url, created_at, updated_at"

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
type ProductPostgres struct {
	table[model.Product]
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sqlx.DB) *ProductPostgres {
	return &ProductPostgres{table[model.Product]{db: db, name: "products", columns: productColumns}}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

// Save inserts a new product when ID is zero, otherwise updates the existing row.
func (r *ProductPostgres) Save(ctx context.Context, p *model.Product) (*model.Product, error) {
	var row *sqlx.Row
	if p.ID == 0 {
		const q = `
			INSERT INTO products (description, price, image_url)
			VALUES ($1, $2, $3)
			RETURNING ` + productColumns
		row = r.db.QueryRowxContext(ctx, q, p.Description, p.Price, p.ImageURL)
	} else {
		const q = `
			UPDATE products
			SET description = $2, price = $3, image_url = $4, updated_at = now()
			WHERE id = $1
			RETURNING ` + productColumns
		row = r.db.QueryRowxContext(ctx, q, p.ID, p.Description, p.Price, p.ImageURL)
	}

	var out model.Product
	if err := row.StructScan(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}
