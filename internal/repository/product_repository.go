package repository

import (
	"context"
	"database/sql"

	"stock-control/internal/database"
	"stock-control/internal/domain"
)

// ProductCreateInput carries the attributes of a new product.
type ProductCreateInput struct {
	Code            string
	Description     string
	IDCategory      int64
	IDUnitOfMeasure int64
	MinimumStock    int
	Active          int
}

// ProductUpdateInput carries the updatable attributes of a product. The code
// is immutable after creation.
type ProductUpdateInput struct {
	Description     string
	IDCategory      int64
	IDUnitOfMeasure int64
	MinimumStock    int
	Active          int
}

// ProductListParams holds the filter, sort and pagination arguments of a
// product listing. Nil filters are passed to the procedure as NULL, which
// disables them.
type ProductListParams struct {
	FilterCode        *string
	FilterDescription *string
	FilterIDCategory  *int64
	FilterActive      *int
	SortBy            string
	SortDirection     string
	Page              int
	PageSize          int
}

// CriticalListParams holds the filter and sort arguments of a critical-stock
// listing. The critical list is not paginated.
type CriticalListParams struct {
	FilterIDCategory *int64
	SortBy           string
	SortDirection    string
}

// ProductRepository defines the data access surface for products. Every
// method maps to exactly one stored procedure.
type ProductRepository interface {
	Create(ctx context.Context, credential domain.Credential, input ProductCreateInput) (int64, error)
	List(ctx context.Context, credential domain.Credential, params ProductListParams) ([]domain.ProductListItem, error)
	Get(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.Product, error)
	Update(ctx context.Context, credential domain.Credential, idProduct int64, input ProductUpdateInput) (int64, error)
	Delete(ctx context.Context, credential domain.Credential, idProduct int64) (int64, error)
	ListCritical(ctx context.Context, credential domain.Credential, params CriticalListParams) ([]domain.CriticalProduct, error)
	CriticalHistory(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalHistory, error)
	UpdateMinimumStock(ctx context.Context, credential domain.Credential, idProduct int64, minimumStock int) (*domain.MinimumStockUpdate, error)
	CheckCriticalStatus(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalStatusCheck, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, credential domain.Credential, input ProductCreateInput) (int64, error) {
	var id int64
	err := database.QueryRowProc(ctx, r.db, "functional.sp_product_create",
		[]any{
			credential.IDAccount,
			credential.IDUser,
			input.Code,
			input.Description,
			input.IDCategory,
			input.IDUnitOfMeasure,
			input.MinimumStock,
			input.Active,
		},
		func(row *sql.Row) error {
			return row.Scan(&id)
		},
	)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *productRepository) List(ctx context.Context, credential domain.Credential, params ProductListParams) ([]domain.ProductListItem, error) {
	items := []domain.ProductListItem{}
	err := database.QueryProc(ctx, r.db, "functional.sp_product_list",
		[]any{
			credential.IDAccount,
			params.FilterCode,
			params.FilterDescription,
			params.FilterIDCategory,
			params.FilterActive,
			params.SortBy,
			params.SortDirection,
			params.Page,
			params.PageSize,
		},
		func(rows *sql.Rows) error {
			var item domain.ProductListItem
			if err := rows.Scan(
				&item.IDProduct,
				&item.Code,
				&item.Description,
				&item.IDCategory,
				&item.CategoryName,
				&item.IDUnitOfMeasure,
				&item.UnitOfMeasureCode,
				&item.UnitOfMeasureName,
				&item.MinimumStock,
				&item.Active,
				&item.DateCreated,
				&item.DateModified,
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

func (r *productRepository) Get(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.Product, error) {
	product := &domain.Product{}
	err := database.QueryRowProc(ctx, r.db, "functional.sp_product_get",
		[]any{credential.IDAccount, idProduct},
		func(row *sql.Row) error {
			return row.Scan(
				&product.IDProduct,
				&product.Code,
				&product.Description,
				&product.IDCategory,
				&product.CategoryName,
				&product.CategoryDescription,
				&product.IDUnitOfMeasure,
				&product.UnitOfMeasureCode,
				&product.UnitOfMeasureName,
				&product.MinimumStock,
				&product.Active,
				&product.DateCreated,
				&product.DateModified,
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) Update(ctx context.Context, credential domain.Credential, idProduct int64, input ProductUpdateInput) (int64, error) {
	var id int64
	err := database.QueryRowProc(ctx, r.db, "functional.sp_product_update",
		[]any{
			credential.IDAccount,
			credential.IDUser,
			idProduct,
			input.Description,
			input.IDCategory,
			input.IDUnitOfMeasure,
			input.MinimumStock,
			input.Active,
		},
		func(row *sql.Row) error {
			return row.Scan(&id)
		},
	)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *productRepository) Delete(ctx context.Context, credential domain.Credential, idProduct int64) (int64, error) {
	var id int64
	err := database.QueryRowProc(ctx, r.db, "functional.sp_product_delete",
		[]any{credential.IDAccount, credential.IDUser, idProduct},
		func(row *sql.Row) error {
			return row.Scan(&id)
		},
	)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *productRepository) ListCritical(ctx context.Context, credential domain.Credential, params CriticalListParams) ([]domain.CriticalProduct, error) {
	items := []domain.CriticalProduct{}
	err := database.QueryProc(ctx, r.db, "functional.sp_product_list_critical",
		[]any{
			credential.IDAccount,
			params.FilterIDCategory,
			params.SortBy,
			params.SortDirection,
		},
		func(rows *sql.Rows) error {
			var item domain.CriticalProduct
			if err := rows.Scan(
				&item.IDProduct,
				&item.Code,
				&item.Description,
				&item.IDCategory,
				&item.CategoryName,
				&item.IDUnitOfMeasure,
				&item.UnitOfMeasureCode,
				&item.UnitOfMeasureName,
				&item.MinimumStock,
				&item.CurrentQuantity,
				&item.CriticalStatus,
				&item.ZeroStock,
				&item.LastUpdate,
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

func (r *productRepository) CriticalHistory(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalHistory, error) {
	result := &domain.CriticalHistory{History: []domain.CriticalHistoryEntry{}}
	found := false

	err := database.QueryProcCursors(ctx, r.db, "functional.sp_product_critical_history_get",
		[]any{credential.IDAccount, idProduct},
		func(rows *sql.Rows) error {
			found = true
			return rows.Scan(
				&result.ProductInfo.IDProduct,
				&result.ProductInfo.Code,
				&result.ProductInfo.Description,
				&result.ProductInfo.MinimumStock,
				&result.ProductInfo.CriticalStatus,
			)
		},
		func(rows *sql.Rows) error {
			var entry domain.CriticalHistoryEntry
			if err := rows.Scan(
				&entry.IDCriticalStockHistory,
				&entry.EntryDate,
				&entry.ExitDate,
				&entry.MinimumQuantity,
				&entry.DurationDays,
				&entry.IsActive,
			); err != nil {
				return err
			}
			result.History = append(result.History, entry)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, database.ErrNoRows
	}
	return result, nil
}

func (r *productRepository) UpdateMinimumStock(ctx context.Context, credential domain.Credential, idProduct int64, minimumStock int) (*domain.MinimumStockUpdate, error) {
	result := &domain.MinimumStockUpdate{}
	err := database.QueryRowProc(ctx, r.db, "functional.sp_product_update_minimum_stock",
		[]any{credential.IDAccount, credential.IDUser, idProduct, minimumStock},
		func(row *sql.Row) error {
			return row.Scan(
				&result.IDProduct,
				&result.PreviousMinimumStock,
				&result.MinimumStock,
				&result.CurrentQuantity,
				&result.IsCritical,
				&result.WasRevaluated,
				&result.VerificationDate,
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) CheckCriticalStatus(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalStatusCheck, error) {
	result := &domain.CriticalStatusCheck{}
	err := database.QueryRowProc(ctx, r.db, "functional.sp_product_check_critical_status",
		[]any{credential.IDAccount, idProduct},
		func(row *sql.Row) error {
			return row.Scan(
				&result.IDProduct,
				&result.CriticalStatus,
				&result.CurrentQuantity,
				&result.MinimumStock,
				&result.VerificationDate,
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
