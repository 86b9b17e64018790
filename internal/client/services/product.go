// Package services contains the application services of the terminal. Each
// service composes the entity sync policy with whatever extra local or
// remote calls its workflows need; the CLI talks only to this layer.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/client/repositories/products"
	"github.com/avolkovs/tillpoint/internal/client/sync"
	"github.com/avolkovs/tillpoint/internal/common"
)

// ProductService exposes catalogue operations.
type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, id string, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

// productGetter is the one remote call the product service needs beyond the
// sync policy.
type productGetter interface {
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

type productService struct {
	policy *sync.Policy[models.Product]
	repo   products.Repository
	remote productGetter
	online sync.Online
}

func NewProductService(policy *sync.Policy[models.Product], repo products.Repository, remote productGetter, online sync.Online) ProductService {
	return &productService{policy: policy, repo: repo, remote: remote, online: online}
}

func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	return s.policy.FetchAll(ctx)
}

// Get prefers the cache; the backend is asked only for ids the cache has
// never seen, and only while online.
func (s *productService) Get(ctx context.Context, id string) (models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return models.Product{}, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	if !s.online.IsOnline() {
		return models.Product{}, common.ErrNotFound
	}
	return s.remote.GetProduct(ctx, id)
}

func (s *productService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.GetAll(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *productService) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}
	return s.policy.Create(ctx, p)
}

func (s *productService) Update(ctx context.Context, id string, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}
	return s.policy.Update(ctx, id, p)
}

func (s *productService) Delete(ctx context.Context, id string) error {
	return s.policy.Delete(ctx, id)
}

func validateProduct(p models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", common.ErrValidation)
	}
	if p.SellingPrice.IsNegative() {
		return fmt.Errorf("%w: selling price cannot be negative", common.ErrValidation)
	}
	return nil
}
