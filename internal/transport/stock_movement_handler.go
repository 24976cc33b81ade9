package transport

import (
	"errors"
	"net/http"
	"time"

	"stock-control/internal/database"
	"stock-control/internal/domain"
	"stock-control/internal/middleware"
	"stock-control/internal/repository"
	"stock-control/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StockMovementCreateRequest represents the movement creation payload. An
// omitted movementDate stamps the movement with the database's current time.
type StockMovementCreateRequest struct {
	IDProduct    int64  `json:"idProduct" validate:"required,gt=0"`
	MovementType string `json:"movementType" validate:"required,oneof=ENTRY EXIT"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	MovementDate string `json:"movementDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00,notfuture"`
}

// StockMovementListRequest represents the movement listing parameters.
type StockMovementListRequest struct {
	IDProduct     *int64  `json:"idProduct" validate:"omitempty,gt=0"`
	MovementType  *string `json:"movementType" validate:"omitempty,oneof=ENTRY EXIT"`
	DateFrom      string  `json:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo        string  `json:"dateTo" validate:"omitempty,datetime=2006-01-02"`
	SortBy        string  `json:"sortBy" validate:"omitempty,oneof=movementDate product quantity type"`
	SortDirection string  `json:"sortDirection" validate:"omitempty,oneof=asc desc"`
	Page          int     `json:"page" validate:"omitempty,gte=1"`
	PageSize      int     `json:"pageSize" validate:"omitempty,oneof=10 25 50 100"`
}

func (req *StockMovementListRequest) applyDefaults() {
	if req.SortBy == "" {
		req.SortBy = "movementDate"
	}
	if req.SortDirection == "" {
		req.SortDirection = "desc"
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 50
	}
}

// StockMovementGetRequest identifies one movement by its path parameter.
type StockMovementGetRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// StockMovementHandler handles HTTP requests for stock movement operations
type StockMovementHandler struct {
	movementService service.StockMovementService
	logger          *zap.Logger
}

// NewStockMovementHandler creates a new StockMovementHandler
func NewStockMovementHandler(movementService service.StockMovementService, logger *zap.Logger) *StockMovementHandler {
	return &StockMovementHandler{
		movementService: movementService,
		logger:          logger,
	}
}

// RegisterRoutes registers all stock movement routes under the given router.
// Movements are append-only, so only create and read are exposed.
func (h *StockMovementHandler) RegisterRoutes(r chi.Router, checker middleware.PermissionChecker) {
	require := func(permission domain.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(checker, domain.SecurableStockMovement, permission, h.logger)
	}

	r.Route("/stock-movement", func(r chi.Router) {
		r.With(require(domain.PermissionCreate)).Post("/", h.Create)
		r.With(require(domain.PermissionRead)).Get("/", h.List)
		r.With(require(domain.PermissionRead)).Get("/{id}", h.Get)
	})
}

// Create handles movement registration
func (h *StockMovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req StockMovementCreateRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		h.logger.Debug("Movement create decode failed", zap.Error(err))
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

	input := repository.StockMovementCreateInput{
		IDProduct:    req.IDProduct,
		MovementType: req.MovementType,
		Quantity:     req.Quantity,
	}
	if req.MovementDate != "" {
		if parsed, err := time.Parse(time.RFC3339, req.MovementDate); err == nil {
			input.MovementDate = &parsed
		} else {
			middleware.RespondValidationErrors(w, []middleware.ValidationError{
				{Field: "movementDate", Message: "Invalid date format, expected RFC 3339"},
			})
			return
		}
	}

	result, err := h.movementService.Create(r.Context(), credential, input)
	if err != nil {
		h.respondServiceError(w, "movement create", err)
		return
	}

	h.logger.Info("Stock movement recorded",
		zap.Int64("idStockMovement", result.IDStockMovement),
		zap.Int64("idProduct", req.IDProduct),
		zap.String("movementType", req.MovementType),
		zap.Int("quantity", req.Quantity),
		zap.Int("newQuantity", result.NewQuantity),
		zap.Int64("idAccount", credential.IDAccount),
	)
	middleware.RespondSuccess(w, result, nil)
}

// List handles paginated movement listing
func (h *StockMovementHandler) List(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req StockMovementListRequest
	violations, err := middleware.DecodeAndValidate(r, &req)
	if err != nil {
		h.logger.Debug("Movement list decode failed", zap.Error(err))
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

	params := repository.StockMovementListParams{
		FilterIDProduct:    req.IDProduct,
		FilterMovementType: req.MovementType,
		SortBy:             req.SortBy,
		SortDirection:      req.SortDirection,
		Page:               req.Page,
		PageSize:           req.PageSize,
	}
	if req.DateFrom != "" {
		if parsed, err := time.Parse("2006-01-02", req.DateFrom); err == nil {
			params.FilterDateFrom = &parsed
		} else {
			middleware.RespondValidationErrors(w, []middleware.ValidationError{
				{Field: "dateFrom", Message: "Invalid date format, expected YYYY-MM-DD"},
			})
			return
		}
	}
	if req.DateTo != "" {
		if parsed, err := time.Parse("2006-01-02", req.DateTo); err == nil {
			params.FilterDateTo = &parsed
		} else {
			middleware.RespondValidationErrors(w, []middleware.ValidationError{
				{Field: "dateTo", Message: "Invalid date format, expected YYYY-MM-DD"},
			})
			return
		}
	}

	items, total, err := h.movementService.List(r.Context(), credential, params)
	if err != nil {
		h.respondServiceError(w, "movement list", err)
		return
	}

	middleware.RespondSuccess(w, items, middleware.NewPagination(req.Page, req.PageSize, total))
}

// Get handles fetching a single movement
func (h *StockMovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	credential, ok := middleware.GetCredential(r.Context())
	if !ok {
		middleware.RespondError(w, middleware.ErrUnauthorized)
		return
	}

	var req StockMovementGetRequest
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

	movement, err := h.movementService.Get(r.Context(), credential, req.ID)
	if err != nil {
		h.respondServiceError(w, "movement get", err)
		return
	}

	middleware.RespondSuccess(w, movement, nil)
}

func (h *StockMovementHandler) respondServiceError(w http.ResponseWriter, operation string, err error) {
	var ruleErr *database.BusinessRuleError
	if errors.As(err, &ruleErr) {
		middleware.RespondBusinessRule(w, ruleErr.Message)
		return
	}
	if errors.Is(err, database.ErrNoRows) {
		middleware.RespondError(w, middleware.ErrNotFound)
		return
	}

	h.logger.Error("Stock movement operation failed",
		zap.String("operation", operation),
		zap.Error(err),
	)
	middleware.RespondError(w, middleware.ErrGeneral)
}
