package transport

import (
	"errors"
	"net/http"

	"stock-control/internal/database"
	"stock-control/internal/domain"
	"stock-control/internal/middleware"
	"stock-control/internal/repository"
	"stock-control/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductCreateRequest represents the product creation payload
type ProductCreateRequest struct {
	Code            string `json:"code" validate:"required,min=3,max=20,productcode"`
	Description     string `json:"description" validate:"required,min=1,max=200"`
	IDCategory      int64  `json:"idCategory" validate:"required,gt=0"`
	IDUnitOfMeasure int64  `json:"idUnitOfMeasure" validate:"required,gt=0"`
	MinimumStock    *int   `json:"minimumStock" validate:"omitempty,gte=0"`
	Active          *int   `json:"active" validate:"omitempty,oneof=0 1"`
}

// ProductListRequest represents the product listing parameters. Filters are
// pointers so an absent parameter reaches the procedure as NULL.
type ProductListRequest struct {
	Code          *string `json:"code" validate:"omitempty,max=50"`
	Description   *string `json:"description" validate:"omitempty,max=200"`
	IDCategory    *int64  `json:"idCategory" validate:"omitempty,gt=0"`
	Active        *int    `json:"active" validate:"omitempty,oneof=0 1"`
	SortBy        string  `json:"sortBy" validate:"omitempty,oneof=code description category dateCreated"`
	SortDirection string  `json:"sortDirection" validate:"omitempty,oneof=asc desc"`
	Page          int     `json:"page" validate:"omitempty,gte=1"`
	PageSize      int     `json:"pageSize" validate:"omitempty,oneof=10 25 50 100"`
}

func (req *ProductListRequest) applyDefaults() {
	if req.SortBy == "" {
		req.SortBy = "code"
	}
	if req.SortDirection == "" {
		req.SortDirection = "asc"
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 25
	}
}

// ProductGetRequest identifies one product by its path parameter.
type ProductGetRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// ProductUpdateRequest represents the product update payload. The code is
// immutable and therefore absent here.
type ProductUpdateRequest struct {
	ID              int64  `json:"id" validate:"required,gt=0"`
	Description     string `json:"description" validate:"required,min=1,max=200"`
	IDCategory      int64  `json:"idCategory" validate:"required,gt=0"`
	IDUnitOfMeasure int64  `json:"idUnitOfMeasure" validate:"required,gt=0"`
	MinimumStock    *int   `json:"minimumStock" validate:"required,gte=0"`
	Active          *int   `json:"active" validate:"required,oneof=0 1"`
}

// CriticalListRequest represents the critical-stock listing parameters.
type CriticalListRequest struct {
	IDCategory    *int64 `json:"idCategory" validate:"omitempty,gt=0"`
	SortBy        string `json:"sortBy" validate:"omitempty,oneof=quantity code description category"`
	SortDirection string `json:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

func (req *CriticalListRequest) applyDefaults() {
	if req.SortBy == "" {
		req.SortBy = "quantity"
	}
	if req.SortDirection == "" {
		req.SortDirection = "asc"
	}
}

// MinimumStockRequest represents a minimum stock threshold change.
type MinimumStockRequest struct {
	ID           int64 `json:"id" validate:"required,gt=0"`
	MinimumStock *int  `json:"minimumStock" validate:"required,gte=0"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes under the given router. Every
// route is gated by a permission tuple on the PRODUCT securable.
func (h *ProductHandler) RegisterRoutes(r chi.Router, checker middleware.PermissionChecker) {
	require := func(permission domain.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(checker, domain.SecurableProduct, permission, h.logger)
	}

	r.Route("/product", func(r chi.Router) {
		r.With(require(domain.PermissionCreate)).Post("/", h.Create)
		r.With(require(domain.PermissionRead)).Get("/", h.List)
		r.With(require(domain.PermissionRead)).Get("/critical", h.ListCritical)
		r.With(require(domain.PermissionRead)).Get("/{id}", h.Get)
		r.With(require(domain.PermissionUpdate)).Put("/{id}", h.Update)
		r.With(require(domain.PermissionDelete)).Delete("/{id}", h.Delete)
		r.With(require(domain.PermissionRead)).Get("/{id}/critical-history", h.CriticalHistory)
		r.With(require(domain.PermissionUpdate)).Patch("/{id}/minimum-stock", h.UpdateMinimumStock)
		r.With(require(domain.PermissionUpdate)).Post("/{id}/check-critical", h.CheckCriticalStatus)
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req ProductCreateRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		h.logger.Debug("Product create decode failed", zap.Error(err))
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request body",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}

	input := repository.ProductCreateInput{
		Code:            req.Code,
		Description:     req.Description,
		IDCategory:      req.IDCategory,
		IDUnitOfMeasure: req.IDUnitOfMeasure,
		MinimumStock:    5,
		Active:          1,
	}
	if req.MinimumStock != nil {
		input.MinimumStock = *req.MinimumStock
	}
	if req.Active != nil {
		input.Active = *req.Active
	}

	product, err := h.productService.Create(r.Context(), credential, input)
	if err != nil {
		h.respondServiceError(w, "product create", err)
		return
	}

	h.logger.Info("Product created",
		zap.Int64("idProduct", product.IDProduct),
		zap.String("code", product.Code),
		zap.Int64("idAccount", credential.IDAccount),
	)
	middleware.RespondSuccess(w, product, nil)
}

// List handles paginated product listing
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req ProductListRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		h.logger.Debug("Product list decode failed", zap.Error(err))
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request parameters",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}
	req.applyDefaults()

	items, total, err := h.productService.List(r.Context(), credential, repository.ProductListParams{
		FilterCode:        req.Code,
		FilterDescription: req.Description,
		FilterIDCategory:  req.IDCategory,
		FilterActive:      req.Active,
		SortBy:            req.SortBy,
		SortDirection:     req.SortDirection,
		Page:              req.Page,
		PageSize:          req.PageSize,
	})
	if err != nil {
		h.respondServiceError(w, "product list", err)
		return
	}

	middleware.RespondSuccess(w, items, middleware.NewPagination(req.Page, req.PageSize, total))
}

// Get handles fetching a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req ProductGetRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request parameters",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}

	product, err := h.productService.Get(r.Context(), credential, req.ID)
	if err != nil {
		h.respondServiceError(w, "product get", err)
		return
	}

	middleware.RespondSuccess(w, product, nil)
}

// Update handles product modification
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req ProductUpdateRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		h.logger.Debug("Product update decode failed", zap.Error(err))
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request body",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}

	product, err := h.productService.Update(r.Context(), credential, req.ID, repository.ProductUpdateInput{
		Description:     req.Description,
		IDCategory:      req.IDCategory,
		IDUnitOfMeasure: req.IDUnitOfMeasure,
		MinimumStock:    *req.MinimumStock,
		Active:          *req.Active,
	})
	if err != nil {
		h.respondServiceError(w, "product update", err)
		return
	}

	h.logger.Info("Product updated",
		zap.Int64("idProduct", product.IDProduct),
		zap.Int64("idAccount", credential.IDAccount),
	)
	middleware.RespondSuccess(w, product, nil)
}

// Delete handles product deactivation. Products are soft-deleted.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req ProductGetRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request parameters",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}

	if err := h.productService.Delete(r.Context(), credential, req.ID); err != nil {
		h.respondServiceError(w, "product delete", err)
		return
	}

	h.logger.Info("Product deactivated",
		zap.Int64("idProduct", req.ID),
		zap.Int64("idAccount", credential.IDAccount),
	)
	middleware.RespondSuccess(w, map[string]int64{"idProduct": req.ID}, nil)
}

// ListCritical handles the critical-stock listing
func (h *ProductHandler) ListCritical(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req CriticalListRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request parameters",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}
	req.applyDefaults()

	items, err := h.productService.ListCritical(r.Context(), credential, repository.CriticalListParams{
		FilterIDCategory: req.IDCategory,
		SortBy:           req.SortBy,
		SortDirection:    req.SortDirection,
	})
	if err != nil {
		h.respondServiceError(w, "critical product list", err)
		return
	}

	middleware.RespondSuccess(w, items, nil)
}

// CriticalHistory handles fetching a product's critical-stock periods
func (h *ProductHandler) CriticalHistory(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req ProductGetRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request parameters",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}

	history, err := h.productService.CriticalHistory(r.Context(), credential, req.ID)
	if err != nil {
		h.respondServiceError(w, "critical history", err)
		return
	}

	middleware.RespondSuccess(w, history, nil)
}

// UpdateMinimumStock handles minimum stock threshold changes
func (h *ProductHandler) UpdateMinimumStock(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req MinimumStockRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		h.logger.Debug("Minimum stock decode failed", zap.Error(err))
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request body",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}

	result, err := h.productService.UpdateMinimumStock(r.Context(), credential, req.ID, *req.MinimumStock)
	if err != nil {
		h.respondServiceError(w, "minimum stock update", err)
		return
	}

	h.logger.Info("Minimum stock updated",
		zap.Int64("idProduct", result.IDProduct),
		zap.Int("previousMinimumStock", result.PreviousMinimumStock),
		zap.Int("minimumStock", result.MinimumStock),
		zap.Int("wasRevaluated", result.WasRevaluated),
	)
	middleware.RespondSuccess(w, result, nil)
}

// CheckCriticalStatus handles an on-demand critical re-evaluation
func (h *ProductHandler) CheckCriticalStatus(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req ProductGetRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		middleware.RespondError(w, &middleware.APIError{
			Status:  http.StatusBadRequest,
			Code:    "INVALID_REQUEST",
			Message: "invalid request parameters",
		})
		return
	}
	if len(violations) > 0 {
		middleware.RespondValidationErrors(w, violations)
		return
	}

	result, err := h.productService.CheckCriticalStatus(r.Context(), credential, req.ID)
	if err != nil {
		h.respondServiceError(w, "critical status check", err)
		return
	}

	middleware.RespondSuccess(w, result, nil)
}

// respondServiceError maps data-layer failures onto the error envelope. Rule
// violations surface their message verbatim as a 400, missing targets become
// 404, everything else is logged and hidden behind an opaque 500.
func (h *ProductHandler) respondServiceError(w http.ResponseWriter, operation string, err error) {
	var ruleErr *database.BusinessRuleError
	if errors.As(err, &ruleErr) {
		middleware.RespondBusinessRule(w, ruleErr.Message)
		return
	}
	if errors.Is(err, database.ErrNoRows) {
		middleware.RespondError(w, middleware.ErrNotFound)
		return
	}

	h.logger.Error("Product operation failed",
		zap.String("operation", operation),
		zap.Error(err),
	)
	middleware.RespondError(w, middleware.ErrGeneral)
}
