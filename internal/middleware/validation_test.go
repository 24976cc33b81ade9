package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"regexp"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Test struct mirroring a product creation payload
type testCreateRequest struct {
	Code         string `json:"code" validate:"required,max=50,productcode"`
	Description  string `json:"description" validate:"required,max=200"`
	IDCategory   int64  `json:"idCategory" validate:"required,gt=0"`
	MinimumStock *int   `json:"minimumStock" validate:"omitempty,gte=0"`
}

type testListRequest struct {
	ID       int64   `json:"id" validate:"omitempty,gt=0"`
	Code     *string `json:"code" validate:"omitempty,max=50"`
	Page     int     `json:"page" validate:"omitempty,gte=1"`
	PageSize int     `json:"pageSize" validate:"omitempty,oneof=10 25 50 100"`
}

// Feature: stock-control, Property 10: Product codes are uppercase alphanumeric
// Validates: Requirements 4.2
func TestProperty_ProductCodeFormatValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)
	codePattern := regexp.MustCompile(`^[A-Z0-9]+$`)

	properties.Property("only uppercase alphanumeric codes pass validation", prop.ForAll(
		func(code string) bool {
			reqMap := map[string]interface{}{
				"code":        code,
				"description": "a product",
				"idCategory":  1,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testCreateRequest
			violations, err := DecodeAndValidate(req, &testReq)
			if err != nil {
				return false
			}

			shouldPass := code != "" && len(code) <= 50 && codePattern.MatchString(code)
			if shouldPass {
				return len(violations) == 0
			}
			return len(violations) > 0
		},
		gen.OneGenOf(
			gen.RegexMatch(`^[A-Z0-9]{1,50}$`),
			gen.AlphaString(),
			gen.AnyString(),
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: stock-control, Property 11: Page sizes are restricted to the allowed set
// Validates: Requirements 5.3
func TestProperty_PageSizeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("page sizes outside the allowed set are rejected", prop.ForAll(
		func(pageSize int) bool {
			req := httptest.NewRequest("GET", "/test?pageSize="+strconv.Itoa(pageSize), nil)

			var testReq testListRequest
			violations, err := DecodeAndValidate(req, &testReq)
			if err != nil {
				return false
			}

			allowed := pageSize == 10 || pageSize == 25 || pageSize == 50 || pageSize == 100
			if allowed {
				return len(violations) == 0
			}
			return len(violations) > 0
		},
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that body values override query string values
func TestBind_BodyOverridesQuery(t *testing.T) {
	body := bytes.NewReader([]byte(`{"page": 3}`))
	req := httptest.NewRequest("POST", "/test?page=7&pageSize=25", body)
	req.Header.Set("Content-Type", "application/json")

	var testReq testListRequest
	violations, err := Bind(req, &testReq)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if len(violations) > 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}

	if testReq.Page != 3 {
		t.Errorf("expected body page 3 to win over query page 7, got %d", testReq.Page)
	}
	if testReq.PageSize != 25 {
		t.Errorf("expected query pageSize 25, got %d", testReq.PageSize)
	}
}

// Test that path parameters are bound when neither query nor body carry the key
func TestBind_PathParameters(t *testing.T) {
	req := httptest.NewRequest("GET", "/test/42", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	var testReq testListRequest
	violations, err := Bind(req, &testReq)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if len(violations) > 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}

	if testReq.ID != 42 {
		t.Errorf("expected path id 42, got %d", testReq.ID)
	}
}

// Test that a malformed JSON body is reported as a bind error, not a violation
func TestBind_MalformedBody(t *testing.T) {
	body := bytes.NewReader([]byte(`{"page": `))
	req := httptest.NewRequest("POST", "/test", body)
	req.Header.Set("Content-Type", "application/json")

	var testReq testListRequest
	if _, err := Bind(req, &testReq); err == nil {
		t.Fatal("expected an error for a truncated JSON body")
	}
}

// Test that a value of the wrong type yields a field violation, not an error
func TestDecodeAndValidate_TypeMismatch(t *testing.T) {
	cases := []struct {
		name      string
		method    string
		target    string
		payload   string
		wantField string
	}{
		{"string for int in body", "POST", "/test", `{"page": "abc", "pageSize": 25}`, "page"},
		{"non-numeric query param", "GET", "/test?page=abc", "", "page"},
		{"object for string", "POST", "/test", `{"code": {"nested": true}}`, "code"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body *bytes.Reader
			if tc.payload != "" {
				body = bytes.NewReader([]byte(tc.payload))
			} else {
				body = bytes.NewReader(nil)
			}
			req := httptest.NewRequest(tc.method, tc.target, body)
			if tc.payload != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			var testReq testListRequest
			violations, err := DecodeAndValidate(req, &testReq)
			if err != nil {
				t.Fatalf("expected a violation rather than an error, got %v", err)
			}
			if len(violations) == 0 {
				t.Fatal("expected a violation for the mismatched field")
			}
			if violations[0].Field != tc.wantField {
				t.Errorf("expected field %q, got %q", tc.wantField, violations[0].Field)
			}
			if violations[0].Message == "" {
				t.Error("expected a non-empty violation message")
			}
		})
	}
}

// Test that violations carry the json field name and a message
func TestDecodeAndValidate_ViolationFormat(t *testing.T) {
	reqBody, _ := json.Marshal(map[string]interface{}{
		"code":        "ab", // lowercase, rejected
		"description": "a product",
		"idCategory":  1,
	})
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var testReq testCreateRequest
	violations, err := DecodeAndValidate(req, &testReq)
	if err != nil {
		t.Fatalf("DecodeAndValidate failed: %v", err)
	}
	if len(violations) == 0 {
		t.Fatal("expected a violation for a lowercase code")
	}
	if violations[0].Field != "code" {
		t.Errorf("expected field name from json tag, got %q", violations[0].Field)
	}
	if violations[0].Message == "" {
		t.Error("expected a non-empty violation message")
	}
}

// Test the RFC 3339 / not-in-the-future pair used on movement dates
func TestDecodeAndValidate_MovementDate(t *testing.T) {
	type dateRequest struct {
		MovementDate string `json:"movementDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00,notfuture"`
	}

	cases := []struct {
		name    string
		payload string
		wantOK  bool
	}{
		{"absent", `{}`, true},
		{"past date", `{"movementDate":"2020-06-01T10:00:00Z"}`, true},
		{"future date", `{"movementDate":"2999-01-01T00:00:00Z"}`, false},
		{"not a date", `{"movementDate":"yesterday"}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(tc.payload)))
			req.Header.Set("Content-Type", "application/json")

			var dr dateRequest
			violations, err := DecodeAndValidate(req, &dr)
			if err != nil {
				t.Fatalf("DecodeAndValidate failed: %v", err)
			}
			if tc.wantOK && len(violations) > 0 {
				t.Errorf("expected no violations, got %v", violations)
			}
			if !tc.wantOK && len(violations) == 0 {
				t.Error("expected violations, got none")
			}
		})
	}
}
