package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// RoleRepository stores roles through gorm.
type RoleRepository struct {
	*Repository[model.Role, *model.Role]
}

// NewRoleRepository creates a gorm-backed repository.RoleRepository.
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{New[model.Role](db)}
}

var _ repository.RoleRepository = (*RoleRepository)(nil)

// FindByName fetches a single role by its exact name.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var out model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// ProductRepository stores products through gorm.
type ProductRepository struct {
	*Repository[model.Product, *model.Product]
}

// NewProductRepository creates a gorm-backed repository.ProductRepository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{New[model.Product](db)}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
