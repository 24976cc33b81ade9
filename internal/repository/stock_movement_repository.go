package repository

import (
	"context"
	"database/sql"
	"time"

	"stock-control/internal/database"
	"stock-control/internal/domain"
)

// StockMovementCreateInput carries the attributes of a new movement. A nil
// MovementDate lets the database stamp the current time.
type StockMovementCreateInput struct {
	IDProduct    int64
	MovementType string
	Quantity     int
	MovementDate *time.Time
}

// StockMovementListParams holds the filter, sort and pagination arguments of
// a movement listing. Nil filters disable the corresponding predicate.
type StockMovementListParams struct {
	FilterIDProduct    *int64
	FilterMovementType *string
	FilterDateFrom     *time.Time
	FilterDateTo       *time.Time
	SortBy             string
	SortDirection      string
	Page               int
	PageSize           int
}

// StockMovementRepository defines the data access surface for stock
// movements. Every method maps to exactly one stored procedure.
type StockMovementRepository interface {
	Create(ctx context.Context, credential domain.Credential, input StockMovementCreateInput) (*domain.StockMovementResult, error)
	List(ctx context.Context, credential domain.Credential, params StockMovementListParams) ([]domain.StockMovementListItem, error)
	Get(ctx context.Context, credential domain.Credential, idStockMovement int64) (*domain.StockMovement, error)
}

type stockMovementRepository struct {
	db *sql.DB
}

// NewStockMovementRepository creates a new instance of StockMovementRepository
func NewStockMovementRepository(db *sql.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, credential domain.Credential, input StockMovementCreateInput) (*domain.StockMovementResult, error) {
	result := &domain.StockMovementResult{}
	err := database.QueryRowProc(ctx, r.db, "functional.sp_stock_movement_create",
		[]any{
			credential.IDAccount,
			credential.IDUser,
			input.IDProduct,
			input.MovementType,
			input.Quantity,
			input.MovementDate,
		},
		func(row *sql.Row) error {
			return row.Scan(&result.IDStockMovement, &result.NewQuantity)
		},
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *stockMovementRepository) List(ctx context.Context, credential domain.Credential, params StockMovementListParams) ([]domain.StockMovementListItem, error) {
	items := []domain.StockMovementListItem{}
	err := database.QueryProc(ctx, r.db, "functional.sp_stock_movement_list",
		[]any{
			credential.IDAccount,
			params.FilterIDProduct,
			params.FilterMovementType,
			params.FilterDateFrom,
			params.FilterDateTo,
			params.SortBy,
			params.SortDirection,
			params.Page,
			params.PageSize,
		},
		func(rows *sql.Rows) error {
			var item domain.StockMovementListItem
			if err := rows.Scan(
				&item.IDStockMovement,
				&item.IDProduct,
				&item.ProductCode,
				&item.ProductDescription,
				&item.MovementType,
				&item.Quantity,
				&item.MovementDate,
				&item.DateCreated,
				&item.TotalCount,
			); err != nil {
				return err
			}
			items = append(items, item)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *stockMovementRepository) Get(ctx context.Context, credential domain.Credential, idStockMovement int64) (*domain.StockMovement, error) {
	movement := &domain.StockMovement{}
	err := database.QueryRowProc(ctx, r.db, "functional.sp_stock_movement_get",
		[]any{credential.IDAccount, idStockMovement},
		func(row *sql.Row) error {
			return row.Scan(
				&movement.IDStockMovement,
				&movement.IDProduct,
				&movement.ProductCode,
				&movement.ProductDescription,
				&movement.MovementType,
				&movement.Quantity,
				&movement.MovementDate,
				&movement.DateCreated,
				&movement.CurrentQuantity,
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return movement, nil
}
