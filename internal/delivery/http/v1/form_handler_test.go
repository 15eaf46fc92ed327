package v1

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeforms-backend/internal/domain"
	"storeforms-backend/internal/infrastructure/sessionstore"
	"storeforms-backend/internal/usecase"
	"storeforms-backend/pkg/validator"
)

type stubOrderService struct {
	result *domain.OrderResult
	err    error
}

func (s *stubOrderService) PlaceOrder(_ context.Context, _ *domain.OrderPayload) (*domain.OrderResult, error) {
	return s.result, s.err
}

type stubProductService struct {
	result *domain.ProductResult
	err    error
}

func (s *stubProductService) CreateProduct(_ context.Context, _ *domain.ProductPayload) (*domain.ProductResult, error) {
	return s.result, s.err
}

func (s *stubProductService) UpdateProduct(_ context.Context, _ string, _ *domain.ProductPayload) (*domain.ProductResult, error) {
	return s.result, s.err
}

// newTestMux wires the form routes the way the server does so that path
// parameters resolve in tests.
func newTestMux(orders domain.OrderService, products domain.ProductService) *http.ServeMux {
	store := sessionstore.NewStore(time.Hour, time.Hour)
	wizard := usecase.NewWizardUsecase(validator.NewDefaultValidator())
	formUC := usecase.NewFormUsecase(store, wizard, usecase.NewVariantUsecase(), orders, products)

	formHandler := NewFormHandler(formUC)
	variantHandler := NewVariantHandler(formUC)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/forms/checkout", formHandler.CreateCheckoutSession)
	mux.HandleFunc("POST /api/v1/forms/product", formHandler.CreateProductSession)
	mux.HandleFunc("GET /api/v1/forms/{id}", formHandler.GetSession)
	mux.HandleFunc("PUT /api/v1/forms/{id}/fields", formHandler.UpdateFields)
	mux.HandleFunc("POST /api/v1/forms/{id}/advance", formHandler.Advance)
	mux.HandleFunc("POST /api/v1/forms/{id}/retreat", formHandler.Retreat)
	mux.HandleFunc("POST /api/v1/forms/{id}/jump", formHandler.JumpTo)
	mux.HandleFunc("POST /api/v1/forms/{id}/attributes/toggle", variantHandler.ToggleAttribute)
	mux.HandleFunc("POST /api/v1/forms/{id}/attributes", variantHandler.AddCustomAttribute)
	mux.HandleFunc("POST /api/v1/forms/{id}/variants/generate", variantHandler.Generate)
	mux.HandleFunc("PATCH /api/v1/forms/{id}/variants/{variantId}", variantHandler.Override)
	mux.HandleFunc("DELETE /api/v1/forms/{id}/variants/{variantId}", variantHandler.Remove)
	mux.HandleFunc("DELETE /api/v1/forms/{id}/variants", variantHandler.Clear)
	mux.HandleFunc("POST /api/v1/forms/{id}/submit", formHandler.Submit)
	return mux
}

// doJSON performs one request as the given user and decodes the JSON body.
func doJSON(t *testing.T, mux *http.ServeMux, user *domain.User, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), domain.UserContextKey, user))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	}
	return rec.Code, decoded
}

func sessionID(t *testing.T, body map[string]any) string {
	t.Helper()
	id, ok := body["id"].(string)
	require.True(t, ok, "session id missing in %v", body)
	return id
}

func TestFormHandlerLifecycle(t *testing.T) {
	user := &domain.User{ID: "user-1", Role: "vendor"}

	t.Run("Should require an authenticated user", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		code, _ := doJSON(t, mux, nil, http.MethodPost, "/api/v1/forms/checkout", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("Should create and fetch a checkout session", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})

		code, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/checkout", map[string]string{"vendorId": "vendor-1"})
		require.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "shipping", body["step"])
		id := sessionID(t, body)

		code, body = doJSON(t, mux, user, http.MethodGet, "/api/v1/forms/"+id, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, id, sessionID(t, body))
	})

	t.Run("Should return 404 for an unknown session", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		code, _ := doJSON(t, mux, user, http.MethodGet, "/api/v1/forms/nope", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("Should return 403 for another user's session", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		_, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/checkout", nil)
		id := sessionID(t, body)

		other := &domain.User{ID: "user-2"}
		code, _ := doJSON(t, mux, other, http.MethodGet, "/api/v1/forms/"+id, nil)
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func TestFormHandlerWizard(t *testing.T) {
	user := &domain.User{ID: "user-1"}

	t.Run("Should return field errors when advancing with invalid values", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		_, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/checkout", nil)
		id := sessionID(t, body)

		code, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/advance", nil)
		require.Equal(t, http.StatusBadRequest, code)
		fields, ok := body["fields"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "firstName")
		assert.Contains(t, fields, "phone")
	})

	t.Run("Should advance with valid values and retreat back", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		_, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/checkout", nil)
		id := sessionID(t, body)

		code, _ := doJSON(t, mux, user, http.MethodPut, "/api/v1/forms/"+id+"/fields", map[string]string{
			"firstName":   "Amina",
			"phone":       "01711111111",
			"addressLine": "House 12, Road 3",
			"city":        "Dhaka",
		})
		require.Equal(t, http.StatusOK, code)

		code, body = doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/advance", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "payment", body["step"])

		code, body = doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/retreat", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "shipping", body["step"])
	})

	t.Run("Should reject a forward jump", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		_, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/checkout", nil)
		id := sessionID(t, body)

		code, _ := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/jump", map[string]string{"step": "review"})
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestFormHandlerVariants(t *testing.T) {
	user := &domain.User{ID: "user-1"}

	newProductSession := func(t *testing.T, mux *http.ServeMux) string {
		t.Helper()
		_, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/product", map[string]any{
			"draft": map[string]any{
				"basic":    map[string]any{"name": "Shirt", "sku": "SHI"},
				"pricing":  map[string]any{"sellingPrice": "100"},
				"category": map[string]any{"categoryId": "cat-1"},
			},
		})
		return sessionID(t, body)
	}

	toggle := func(t *testing.T, mux *http.ServeMux, id, set, label string) {
		t.Helper()
		code, _ := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/attributes/toggle", map[string]string{
			"set": set, "label": label,
		})
		require.Equal(t, http.StatusOK, code)
	}

	t.Run("Should generate the matrix over toggled attributes", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		id := newProductSession(t, mux)

		toggle(t, mux, id, "colors", "Red")
		toggle(t, mux, id, "colors", "Blue")
		toggle(t, mux, id, "sizes", "S")

		code, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/variants/generate", nil)
		require.Equal(t, http.StatusOK, code)

		product := body["product"].(map[string]any)
		variant := product["variants"].(map[string]any)
		rows := variant["variants"].([]any)
		require.Len(t, rows, 2)
		first := rows[0].(map[string]any)
		assert.Equal(t, "SHI-RS", first["sku"])
	})

	t.Run("Should return 400 when a set is empty", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		id := newProductSession(t, mux)

		toggle(t, mux, id, "colors", "Red")

		code, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/variants/generate", nil)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["error"], "at least one")
	})

	t.Run("Should return 400 on duplicate custom labels", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		id := newProductSession(t, mux)

		code, _ := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/attributes", map[string]string{"set": "colors", "label": "Maroon"})
		require.Equal(t, http.StatusOK, code)

		code, _ = doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/attributes", map[string]string{"set": "colors", "label": "Maroon"})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("Should patch and delete a single row", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		id := newProductSession(t, mux)

		toggle(t, mux, id, "colors", "Red")
		toggle(t, mux, id, "sizes", "S")

		_, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/variants/generate", nil)
		product := body["product"].(map[string]any)
		variant := product["variants"].(map[string]any)
		rows := variant["variants"].([]any)
		variantID := rows[0].(map[string]any)["id"].(string)

		code, body := doJSON(t, mux, user, http.MethodPatch, "/api/v1/forms/"+id+"/variants/"+variantID, map[string]any{"quantity": 42})
		require.Equal(t, http.StatusOK, code)
		product = body["product"].(map[string]any)
		variant = product["variants"].(map[string]any)
		rows = variant["variants"].([]any)
		assert.Equal(t, float64(42), rows[0].(map[string]any)["quantity"])

		code, _ = doJSON(t, mux, user, http.MethodDelete, "/api/v1/forms/"+id+"/variants/"+variantID, nil)
		require.Equal(t, http.StatusOK, code)

		code, _ = doJSON(t, mux, user, http.MethodPatch, "/api/v1/forms/"+id+"/variants/"+variantID, map[string]any{"quantity": 1})
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestFormHandlerSubmit(t *testing.T) {
	user := &domain.User{ID: "user-1"}

	completeCheckout := func(t *testing.T, mux *http.ServeMux) string {
		t.Helper()
		_, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/checkout", map[string]string{"vendorId": "vendor-1"})
		id := sessionID(t, body)

		code, _ := doJSON(t, mux, user, http.MethodPut, "/api/v1/forms/"+id+"/fields", map[string]string{
			"firstName":   "Amina",
			"phone":       "01711111111",
			"addressLine": "House 12, Road 3",
			"city":        "Dhaka",
		})
		require.Equal(t, http.StatusOK, code)
		code, _ = doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/advance", nil)
		require.Equal(t, http.StatusOK, code)
		code, _ = doJSON(t, mux, user, http.MethodPut, "/api/v1/forms/"+id+"/fields", map[string]string{"method": "cod"})
		require.Equal(t, http.StatusOK, code)
		code, _ = doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/advance", nil)
		require.Equal(t, http.StatusOK, code)
		return id
	}

	t.Run("Should submit a completed checkout and discard the session", func(t *testing.T) {
		orders := &stubOrderService{result: &domain.OrderResult{OrderID: "ord-1", OrderNumber: "RF-1001"}}
		mux := newTestMux(orders, &stubProductService{})
		id := completeCheckout(t, mux)

		code, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/submit", nil)
		require.Equal(t, http.StatusOK, code)
		order := body["order"].(map[string]any)
		assert.Equal(t, "RF-1001", order["orderNumber"])

		code, _ = doJSON(t, mux, user, http.MethodGet, "/api/v1/forms/"+id, nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("Should return 502 and keep the session when the upstream fails", func(t *testing.T) {
		orders := &stubOrderService{err: errors.New("connection refused")}
		mux := newTestMux(orders, &stubProductService{})
		id := completeCheckout(t, mux)

		code, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/submit", nil)
		assert.Equal(t, http.StatusBadGateway, code)
		assert.Equal(t, "submission failed, please retry", body["error"])

		code, _ = doJSON(t, mux, user, http.MethodGet, "/api/v1/forms/"+id, nil)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("Should return 400 when submitting before the final step", func(t *testing.T) {
		mux := newTestMux(&stubOrderService{}, &stubProductService{})
		_, body := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/checkout", nil)
		id := sessionID(t, body)

		code, _ := doJSON(t, mux, user, http.MethodPost, "/api/v1/forms/"+id+"/submit", nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
