package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-control/internal/database"
	"stock-control/internal/domain"
	"stock-control/internal/middleware"
	"stock-control/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Checker stubs shared by the handler tests
type allowAllChecker struct{}

func (allowAllChecker) Check(ctx context.Context, credential domain.Credential, securable domain.Securable, permission domain.Permission) (bool, error) {
	return true, nil
}

type denyAllChecker struct{}

func (denyAllChecker) Check(ctx context.Context, credential domain.Credential, securable domain.Securable, permission domain.Permission) (bool, error) {
	return false, nil
}

// Mock product service with programmable responses
type mockProductService struct {
	product   *domain.Product
	listItems []domain.ProductListItem
	listTotal int
	critical  []domain.CriticalProduct
	history   *domain.CriticalHistory
	minStock  *domain.MinimumStockUpdate
	check     *domain.CriticalStatusCheck
	err       error

	gotListParams repository.ProductListParams
}

func (m *mockProductService) Create(ctx context.Context, credential domain.Credential, input repository.ProductCreateInput) (*domain.Product, error) {
	return m.product, m.err
}

func (m *mockProductService) List(ctx context.Context, credential domain.Credential, params repository.ProductListParams) ([]domain.ProductListItem, int, error) {
	m.gotListParams = params
	return m.listItems, m.listTotal, m.err
}

func (m *mockProductService) Get(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.Product, error) {
	return m.product, m.err
}

func (m *mockProductService) Update(ctx context.Context, credential domain.Credential, idProduct int64, input repository.ProductUpdateInput) (*domain.Product, error) {
	return m.product, m.err
}

func (m *mockProductService) Delete(ctx context.Context, credential domain.Credential, idProduct int64) error {
	return m.err
}

func (m *mockProductService) ListCritical(ctx context.Context, credential domain.Credential, params repository.CriticalListParams) ([]domain.CriticalProduct, error) {
	return m.critical, m.err
}

func (m *mockProductService) CriticalHistory(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalHistory, error) {
	return m.history, m.err
}

func (m *mockProductService) UpdateMinimumStock(ctx context.Context, credential domain.Credential, idProduct int64, minimumStock int) (*domain.MinimumStockUpdate, error) {
	return m.minStock, m.err
}

func (m *mockProductService) CheckCriticalStatus(ctx context.Context, credential domain.Credential, idProduct int64) (*domain.CriticalStatusCheck, error) {
	return m.check, m.err
}

func newProductTestRouter(svc *mockProductService, checker middleware.PermissionChecker) http.Handler {
	logger := zap.NewNop()
	handler := NewProductHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/internal", func(r chi.Router) {
		r.Use(middleware.IdentityMiddleware(logger))
		handler.RegisterRoutes(r, checker)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any, withIdentity bool) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if withIdentity {
		req.Header.Set(middleware.HeaderAccountID, "1")
		req.Header.Set(middleware.HeaderUserID, "2")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Metadata *middleware.Pagination `json:"metadata"`
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var envelope testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to parse envelope: %v (body %s)", err, w.Body.String())
	}
	return envelope
}

func TestProductHandler_Create(t *testing.T) {
	svc := &mockProductService{product: &domain.Product{IDProduct: 7, Code: "WIDGET01", Active: 1}}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "POST", "/api/v1/internal/product", map[string]any{
		"code":            "WIDGET01",
		"description":     "a widget",
		"idCategory":      1,
		"idUnitOfMeasure": 2,
		"minimumStock":    5,
	}, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	envelope := parseEnvelope(t, w)
	if !envelope.Success {
		t.Fatal("expected success=true")
	}
	var product domain.Product
	if err := json.Unmarshal(envelope.Data, &product); err != nil {
		t.Fatalf("failed to parse data: %v", err)
	}
	if product.IDProduct != 7 || product.Code != "WIDGET01" {
		t.Errorf("unexpected product: %+v", product)
	}
}

func TestProductHandler_CreateValidation(t *testing.T) {
	svc := &mockProductService{}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "POST", "/api/v1/internal/product", map[string]any{
		"code":            "ab", // lowercase
		"description":     "a widget",
		"idCategory":      1,
		"idUnitOfMeasure": 2,
	}, true)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	envelope := parseEnvelope(t, w)
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %+v", envelope.Error)
	}

	var details []middleware.ValidationError
	if err := json.Unmarshal(envelope.Error.Details, &details); err != nil {
		t.Fatalf("failed to parse details: %v", err)
	}
	if len(details) == 0 || details[0].Field != "code" {
		t.Errorf("expected a violation on code, got %+v", details)
	}
}

func TestProductHandler_CreateDuplicateCode(t *testing.T) {
	svc := &mockProductService{err: &database.BusinessRuleError{Message: "Product code WIDGET01 already exists"}}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "POST", "/api/v1/internal/product", map[string]any{
		"code":            "WIDGET01",
		"description":     "a widget",
		"idCategory":      1,
		"idUnitOfMeasure": 2,
	}, true)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	envelope := parseEnvelope(t, w)
	if envelope.Error.Code != "BUSINESS_RULE_VIOLATION" {
		t.Errorf("expected BUSINESS_RULE_VIOLATION, got %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "Product code WIDGET01 already exists" {
		t.Errorf("rule message was rewritten: %q", envelope.Error.Message)
	}
}

func TestProductHandler_GetNotFound(t *testing.T) {
	svc := &mockProductService{err: database.ErrNoRows}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "GET", "/api/v1/internal/product/99", nil, true)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	envelope := parseEnvelope(t, w)
	if envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %q", envelope.Error.Code)
	}
}

func TestProductHandler_ListPagination(t *testing.T) {
	svc := &mockProductService{
		listItems: []domain.ProductListItem{{IDProduct: 1, TotalCount: 51}},
		listTotal: 51,
	}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "GET", "/api/v1/internal/product?page=2&pageSize=25", nil, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	envelope := parseEnvelope(t, w)
	if envelope.Metadata == nil {
		t.Fatal("expected pagination metadata")
	}
	if envelope.Metadata.Page != 2 || envelope.Metadata.PageSize != 25 || envelope.Metadata.Total != 51 {
		t.Errorf("unexpected pagination: %+v", envelope.Metadata)
	}
	if !envelope.Metadata.HasNext || !envelope.Metadata.HasPrevious {
		t.Errorf("expected hasNext and hasPrevious, got %+v", envelope.Metadata)
	}
}

func TestProductHandler_ListDefaults(t *testing.T) {
	svc := &mockProductService{}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "GET", "/api/v1/internal/product", nil, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	params := svc.gotListParams
	if params.SortBy != "code" || params.SortDirection != "asc" || params.Page != 1 || params.PageSize != 25 {
		t.Errorf("defaults not applied: %+v", params)
	}
}

func TestProductHandler_ListInvalidSort(t *testing.T) {
	svc := &mockProductService{}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "GET", "/api/v1/internal/product?sortBy=price", nil, true)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown sort key, got %d", w.Code)
	}
}

func TestProductHandler_MissingIdentity(t *testing.T) {
	svc := &mockProductService{}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "GET", "/api/v1/internal/product", nil, false)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	envelope := parseEnvelope(t, w)
	if envelope.Error.Code != "UNAUTHORIZED" {
		t.Errorf("expected UNAUTHORIZED, got %q", envelope.Error.Code)
	}
}

func TestProductHandler_PermissionDenied(t *testing.T) {
	svc := &mockProductService{}
	router := newProductTestRouter(svc, denyAllChecker{})

	w := doJSON(t, router, "GET", "/api/v1/internal/product", nil, true)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	envelope := parseEnvelope(t, w)
	if envelope.Error.Code != "FORBIDDEN" {
		t.Errorf("expected FORBIDDEN, got %q", envelope.Error.Code)
	}
}

func TestProductHandler_CriticalHistory(t *testing.T) {
	svc := &mockProductService{
		history: &domain.CriticalHistory{
			ProductInfo: domain.CriticalHistoryInfo{IDProduct: 3, Code: "WIDGET01", CriticalStatus: 1},
			History:     []domain.CriticalHistoryEntry{{IDCriticalStockHistory: 1, MinimumQuantity: 2, IsActive: 1}},
		},
	}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "GET", "/api/v1/internal/product/3/critical-history", nil, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	envelope := parseEnvelope(t, w)
	var history struct {
		ProductInfo     domain.CriticalHistoryInfo    `json:"productInfo"`
		CriticalHistory []domain.CriticalHistoryEntry `json:"criticalHistory"`
	}
	if err := json.Unmarshal(envelope.Data, &history); err != nil {
		t.Fatalf("failed to parse data: %v", err)
	}
	if history.ProductInfo.IDProduct != 3 || len(history.CriticalHistory) != 1 {
		t.Errorf("unexpected history payload: %+v", history)
	}
}

func TestProductHandler_UpdateMinimumStock(t *testing.T) {
	svc := &mockProductService{
		minStock: &domain.MinimumStockUpdate{
			IDProduct:            3,
			PreviousMinimumStock: 10,
			MinimumStock:         25,
			CurrentQuantity:      12,
			IsCritical:           1,
			WasRevaluated:        1,
		},
	}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "PATCH", "/api/v1/internal/product/3/minimum-stock", map[string]any{
		"minimumStock": 25,
	}, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	envelope := parseEnvelope(t, w)
	var result domain.MinimumStockUpdate
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		t.Fatalf("failed to parse data: %v", err)
	}
	if result.PreviousMinimumStock != 10 || result.WasRevaluated != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestProductHandler_UpdateMinimumStockRequired(t *testing.T) {
	svc := &mockProductService{}
	router := newProductTestRouter(svc, allowAllChecker{})

	w := doJSON(t, router, "PATCH", "/api/v1/internal/product/3/minimum-stock", map[string]any{}, true)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing minimumStock, got %d", w.Code)
	}
}
