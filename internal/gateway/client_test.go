package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeforms-backend/internal/domain"
)

func TestOrderClientPlaceOrder(t *testing.T) {
	t.Run("Should post the payload and decode the order result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/orders", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var payload domain.OrderPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "vendor-1", payload.VendorID)
			assert.Equal(t, "cod", payload.PaymentMethod)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(domain.OrderResult{OrderID: "ord-1", OrderNumber: "RF-1001"})
		}))
		defer srv.Close()

		client := NewOrderClient(NewClient(srv.URL, "test-key", 5*time.Second))
		result, err := client.PlaceOrder(context.Background(), &domain.OrderPayload{
			VendorID:      "vendor-1",
			PaymentMethod: "cod",
		})
		require.NoError(t, err)
		assert.Equal(t, "RF-1001", result.OrderNumber)
	})

	t.Run("Should surface non-2xx responses with status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "cart is empty", http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		client := NewOrderClient(NewClient(srv.URL, "", 5*time.Second))
		_, err := client.PlaceOrder(context.Background(), &domain.OrderPayload{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "422")
		assert.Contains(t, err.Error(), "cart is empty")
	})

	t.Run("Should respect context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The server only observes the client disconnect (and cancels
			// r.Context()) once the request body has been consumed.
			io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		client := NewOrderClient(NewClient(srv.URL, "", 5*time.Second))
		_, err := client.PlaceOrder(ctx, &domain.OrderPayload{})
		assert.Error(t, err)
	})
}

func TestProductClient(t *testing.T) {
	t.Run("Should create products with the full variant matrix", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/products", r.URL.Path)

			var payload domain.ProductPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Shirt", payload.Name)
			require.Len(t, payload.Variants, 1)
			assert.Equal(t, "SHI-RS", payload.Variants[0].SKU)

			json.NewEncoder(w).Encode(domain.ProductResult{ProductID: "prod-1", Slug: "shirt"})
		}))
		defer srv.Close()

		client := NewProductClient(NewClient(srv.URL, "", 5*time.Second))
		result, err := client.CreateProduct(context.Background(), &domain.ProductPayload{
			Name:        "Shirt",
			HasVariants: true,
			Variants: []domain.Variant{{
				ID:           "v1",
				Color:        "Red",
				Size:         "S",
				SKU:          "SHI-RS",
				SellingPrice: decimal.NewFromInt(100),
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, "prod-1", result.ProductID)
	})

	t.Run("Should update by id with PUT", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/v1/products/prod-7", r.URL.Path)
			json.NewEncoder(w).Encode(domain.ProductResult{ProductID: "prod-7"})
		}))
		defer srv.Close()

		client := NewProductClient(NewClient(srv.URL, "", 5*time.Second))
		result, err := client.UpdateProduct(context.Background(), "prod-7", &domain.ProductPayload{Name: "Shirt"})
		require.NoError(t, err)
		assert.Equal(t, "prod-7", result.ProductID)
	})
}

func TestCatalogClient(t *testing.T) {
	t.Run("Should list categories", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/categories", r.URL.Path)
			json.NewEncoder(w).Encode([]domain.Category{
				{ID: "cat-1", Name: "Apparel"},
				{ID: "cat-2", Name: "Footwear"},
			})
		}))
		defer srv.Close()

		client := NewCatalogClient(NewClient(srv.URL, "", 5*time.Second))
		cats, err := client.ListCategories(context.Background())
		require.NoError(t, err)
		require.Len(t, cats, 2)
		assert.Equal(t, "Apparel", cats[0].Name)
	})

	t.Run("Should pass the vendor id when listing addresses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/addresses", r.URL.Path)
			assert.Equal(t, "vendor 1", r.URL.Query().Get("vendorId"))
			json.NewEncoder(w).Encode([]domain.Address{{ID: "addr-1", City: "Dhaka"}})
		}))
		defer srv.Close()

		client := NewCatalogClient(NewClient(srv.URL, "", 5*time.Second))
		addrs, err := client.ListAddresses(context.Background(), "vendor 1")
		require.NoError(t, err)
		require.Len(t, addrs, 1)
		assert.Equal(t, "Dhaka", addrs[0].City)
	})
}
