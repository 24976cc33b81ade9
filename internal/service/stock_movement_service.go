package service

import (
	"context"

	"stock-control/internal/domain"
	"stock-control/internal/repository"
)

// StockMovementService defines the interface for stock movement business
// logic. Movements are append-only; there is no update or delete.
type StockMovementService interface {
	Create(ctx context.Context, credential domain.Credential, input repository.StockMovementCreateInput) (*domain.StockMovementResult, error)
	List(ctx context.Context, credential domain.Credential, params repository.StockMovementListParams) ([]domain.StockMovementListItem, int, error)
	Get(ctx context.Context, credential domain.Credential, idStockMovement int64) (*domain.StockMovement, error)
}

type stockMovementService struct {
	movementRepo repository.StockMovementRepository
}

// NewStockMovementService creates a new instance of StockMovementService
func NewStockMovementService(movementRepo repository.StockMovementRepository) StockMovementService {
	return &stockMovementService{movementRepo: movementRepo}
}

// Create records a movement. Stock arithmetic, the insufficient-stock guard
// and critical re-evaluation all happen inside the procedure, which locks the
// product row and re-reads the quantity under that lock before applying them.
func (s *stockMovementService) Create(ctx context.Context, credential domain.Credential, input repository.StockMovementCreateInput) (*domain.StockMovementResult, error) {
	return s.movementRepo.Create(ctx, credential, input)
}

// List returns one page of movements plus the total size of the filtered set.
func (s *stockMovementService) List(ctx context.Context, credential domain.Credential, params repository.StockMovementListParams) ([]domain.StockMovementListItem, int, error) {
	items, err := s.movementRepo.List(ctx, credential, params)
	if err != nil {
		return nil, 0, err
	}
	total := 0
	if len(items) > 0 {
		total = items[0].TotalCount
	}
	return items, total, nil
}

func (s *stockMovementService) Get(ctx context.Context, credential domain.Credential, idStockMovement int64) (*domain.StockMovement, error) {
	return s.movementRepo.Get(ctx, credential, idStockMovement)
}
