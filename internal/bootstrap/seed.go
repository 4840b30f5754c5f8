// Package bootstrap loads initial roles, users and products into an empty or partially seeded store.
package bootstrap

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"storefront/internal/model"
	"storefront/internal/service"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the YAML document describing initial data.
type Seed struct {
	Roles    []string      `yaml:"roles"`
	Users    []SeedUser    `yaml:"users"`
	Products []SeedProduct `yaml:"products"`
}

// SeedUser references roles by name. Enabled defaults to true.
type SeedUser struct {
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	Enabled  *bool    `yaml:"enabled"`
	Roles    []string `yaml:"roles"`
}

type SeedProduct struct {
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	ImageURL    string  `yaml:"image_url"`
}

// Result counts the records created by a run.
type Result struct {
	Roles    int
	Users    int
	Products int
}

// LoadSeed reads a seed document from path, or the embedded default when path is empty.
// Unknown keys are rejected.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) (*Seed, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Seed
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &s, nil
}

// Seeder applies a Seed through the service layer, so validation and password encoding apply.
type Seeder struct {
	users    service.UserService
	roles    service.RoleService
	products service.ProductService
	log      *zap.Logger
}

func NewSeeder(users service.UserService, roles service.RoleService, products service.ProductService, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{users: users, roles: roles, products: products, log: log}
}

// Run is idempotent: existing roles and usernames are skipped, and products
// are only created when the catalog is empty.
func (s *Seeder) Run(ctx context.Context, seed *Seed) (Result, error) {
	var res Result

	roles := make(map[string]model.Role, len(seed.Roles))
	for _, name := range seed.Roles {
		r, created, err := s.ensureRole(ctx, name)
		if err != nil {
			return res, err
		}
		roles[r.Name] = *r
		if created {
			res.Roles++
		}
	}

	for _, su := range seed.Users {
		created, err := s.ensureUser(ctx, su, roles)
		if err != nil {
			return res, err
		}
		if created {
			res.Users++
		}
	}

	n, err := s.seedProducts(ctx, seed.Products)
	if err != nil {
		return res, err
	}
	res.Products = n

	s.log.Info("seed_applied",
		zap.Int("roles_created", res.Roles),
		zap.Int("users_created", res.Users),
		zap.Int("products_created", res.Products),
	)
	return res, nil
}

func (s *Seeder) ensureRole(ctx context.Context, name string) (*model.Role, bool, error) {
	r, err := s.roles.FindByName(ctx, name)
	if err == nil {
		return r, false, nil
	}
	if !errors.Is(err, service.ErrNotFound) {
		return nil, false, fmt.Errorf("seed role %q: %w", name, err)
	}
	r, err = s.roles.SaveOrUpdate(ctx, &model.Role{Name: name})
	if err != nil {
		return nil, false, fmt.Errorf("seed role %q: %w", name, err)
	}
	return r, true, nil
}

func (s *Seeder) ensureUser(ctx context.Context, su SeedUser, roles map[string]model.Role) (bool, error) {
	_, err := s.users.FindByUsername(ctx, su.Username)
	if err == nil {
		s.log.Debug("seed_user_exists", zap.String("username", su.Username))
		return false, nil
	}
	if !errors.Is(err, service.ErrNotFound) {
		return false, fmt.Errorf("seed user %q: %w", su.Username, err)
	}

	u := &model.User{Username: su.Username, Password: su.Password, Enabled: true, Roles: []model.Role{}}
	if su.Enabled != nil {
		u.Enabled = *su.Enabled
	}
	for _, name := range su.Roles {
		r, ok := roles[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return false, fmt.Errorf("seed user %q: role %q is not declared in the seed", su.Username, name)
		}
		u.Roles = append(u.Roles, r)
	}

	if _, err := s.users.SaveOrUpdate(ctx, u); err != nil {
		return false, fmt.Errorf("seed user %q: %w", su.Username, err)
	}
	return true, nil
}

func (s *Seeder) seedProducts(ctx context.Context, products []SeedProduct) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	existing, err := s.products.ListAll(ctx, 1, 0)
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	if existing.Total > 0 {
		return 0, nil
	}

	for i, sp := range products {
		p := &model.Product{Description: sp.Description, Price: sp.Price, ImageURL: sp.ImageURL}
		if _, err := s.products.SaveOrUpdate(ctx, p); err != nil {
			return i, fmt.Errorf("seed product %q: %w", sp.Description, err)
		}
	}
	return len(products), nil
}
