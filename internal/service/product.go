package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/storage"
)

// ProductService defines the use cases for catalog products and their images.
type ProductService interface {
	CRUDService[model.Product]

	// UploadImage streams an image to object storage and points the product at it.
	// The stored object is removed again if the product cannot be saved; the previous image is deleted afterwards.
	UploadImage(ctx context.Context, id int, r io.Reader, filename, contentType string, size int64) (*model.Product, error)

	// ImageLink returns a URL the product image can be fetched from.
	// Stored images get a presigned URL valid for expiry; external http(s) URLs are returned as is.
	ImageLink(ctx context.Context, id int, expiry time.Duration) (string, error)
}

type productService struct {
	crudService[model.Product]
	repo  repository.ProductRepository
	store storage.Storage
	log   *zap.Logger
}

// maxPrice is the first value a NUMERIC(12,2) column cannot hold.
const maxPrice = 1e10

// NewProductService constructs a new ProductService. store may be nil, which disables image uploads.
func NewProductService(store storage.Storage, repo repository.ProductRepository, log *zap.Logger) ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &productService{
		crudService: crudService[model.Product]{repo: repo},
		repo:        repo,
		store:       store,
		log:         log,
	}
}

// SaveOrUpdate validates and stores a product. An update without ImageURL keeps the current image.
// ImageURL may be an external http(s) URL; object keys are only set by UploadImage, so a key is
// accepted on update only when it is the one already stored for the product.
func (s *productService) SaveOrUpdate(ctx context.Context, p *model.Product) (*model.Product, error) {
	if p == nil {
		return nil, validationError("product is required")
	}
	if p.ID < 0 {
		return nil, ErrIDRequired
	}
	in := *p
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, validationError("description is required")
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price < 0 || in.Price >= maxPrice {
		return nil, validationError("price must be between 0 and 9999999999.99")
	}

	keepImage := in.ImageURL == "" || isStoredImage(in.ImageURL)
	switch {
	case in.ID == 0 && isStoredImage(in.ImageURL):
		return nil, validationError("image_url must be an http(s) URL; upload files through the image endpoint")
	case in.ID > 0 && keepImage:
		cur, err := s.repo.FindByID(ctx, in.ID)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		if in.ImageURL != "" && in.ImageURL != cur.ImageURL {
			return nil, validationError("image_url must be an http(s) URL; upload files through the image endpoint")
		}
		in.ImageURL = cur.ImageURL
	}

	saved, err := s.repo.Save(ctx, &in)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return saved, nil
}

func (s *productService) UploadImage(ctx context.Context, id int, r io.Reader, filename, contentType string, size int64) (*model.Product, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	key := storage.ProductImageKey(id, filename)
	obj, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	previous := p.ImageURL
	p.ImageURL = obj.Key
	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", mapRepoErr(err))
	}

	if isStoredImage(previous) && previous != obj.Key {
		if err := s.store.Delete(ctx, previous); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Warn("previous product image not deleted",
				zap.Int("product_id", id),
				zap.String("key", previous),
				zap.Error(err),
			)
		}
	}
	return saved, nil
}

func (s *productService) ImageLink(ctx context.Context, id int, expiry time.Duration) (string, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if p.ImageURL == "" {
		return "", ErrNoImage
	}
	if !isStoredImage(p.ImageURL) {
		return p.ImageURL, nil
	}
	if s.store == nil {
		return "", ErrStorageUnavailable
	}

	link, err := s.store.PresignGet(ctx, p.ImageURL, expiry)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", ErrNoImage
		}
		return "", fmt.Errorf("presign image: %w", err)
	}
	return link, nil
}

// Delete removes the product image from storage, then deletes the product.
// If the storage delete fails the row is kept so the image reference is not lost.
func (s *productService) Delete(ctx context.Context, id int) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if isStoredImage(p.ImageURL) && s.store != nil {
		if err := s.store.Delete(ctx, p.ImageURL); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	return s.repo.DeleteByID(ctx, id)
}

// isStoredImage reports whether ref is an object key rather than an external URL.
func isStoredImage(ref string) bool {
	if ref == "" {
		return false
	}
	lower := strings.ToLower(ref)
	return !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://")
}
