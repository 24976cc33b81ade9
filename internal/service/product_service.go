package service

import (
	"context"

	"stock-control/internal/domain"
	"stock-control/internal/repository"
)

// ProductService defines the interface for product business logic. The stock
// arithmetic and critical-status rules live in the database procedures; this
// tier coordinates access and keeps the transport layer free of repository
// concerns.
type ProductService interface {
	Create(ctx context.Context, credential domain.Credential, input repository.ProductCreateInput) (*domain.Product, error)
	List(ctx context.Context, credential domain.Credential, params repository.ProductListParams) ([]domain.ProductListItem, int, error)
	Get(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.Product, error)
	Update(ctx context.Context, credential domain.Credential, idProduct int64, input repository.ProductUpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, credential domain.Credential, idProduct int64) error
	ListCritical(ctx context.Context, credential domain.Credential, params repository.CriticalListParams) ([]domain.CriticalProduct, error)
	CriticalHistory(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalHistory, error)
	UpdateMinimumStock(ctx context.Context, credential domain.Credential, idProduct int64, minimumStock int) (*domain.MinimumStockUpdate, error)
	CheckCriticalStatus(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalStatusCheck, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// Create stores a new product and returns it fully populated, including the
// category and unit names resolved by the database.
func (s *productService) Create(ctx context.Context, credential domain.Credential, input repository.ProductCreateInput) (*domain.Product, error) {
	id, err := s.productRepo.Create(ctx, credential, input)
	if err != nil {
		return nil, err
	}
	return s.productRepo.Get(ctx, credential, id)
}

// List returns one page of products plus the total size of the filtered set.
// The total rides on every row; an empty page means a total of zero.
func (s *productService) List(ctx context.Context, credential domain.Credential, params repository.ProductListParams) ([]domain.ProductListItem, int, error) {
	items, err := s.productRepo.List(ctx, credential, params)
	if err != nil {
		return nil, 0, err
	}
	total := 0
	if len(items) > 0 {
		total = items[0].TotalCount
	}
	return items, total, nil
}

func (s *productService) Get(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.Product, error) {
	return s.productRepo.Get(ctx, credential, idProduct)
}

// Update applies the change and returns the refreshed product.
func (s *productService) Update(ctx context.Context, credential domain.Credential, idProduct int64, input repository.ProductUpdateInput) (*domain.Product, error) {
	id, err := s.productRepo.Update(ctx, credential, idProduct, input)
	if err != nil {
		return nil, err
	}
	return s.productRepo.Get(ctx, credential, id)
}

func (s *productService) Delete(ctx context.Context, credential domain.Credential, idProduct int64) error {
	_, err := s.productRepo.Delete(ctx, credential, idProduct)
	return err
}

func (s *productService) ListCritical(ctx context.Context, credential domain.Credential, params repository.CriticalListParams) ([]domain.CriticalProduct, error) {
	return s.productRepo.ListCritical(ctx, credential, params)
}

func (s *productService) CriticalHistory(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalHistory, error) {
	return s.productRepo.CriticalHistory(ctx, credential, idProduct)
}

func (s *productService) UpdateMinimumStock(ctx context.Context, credential domain.Credential, idProduct int64, minimumStock int) (*domain.MinimumStockUpdate, error) {
	return s.productRepo.UpdateMinimumStock(ctx, credential, idProduct, minimumStock)
}

func (s *productService) CheckCriticalStatus(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalStatusCheck, error) {
	return s.productRepo.CheckCriticalStatus(ctx, credential, idProduct)
}
