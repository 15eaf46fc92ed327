package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// --- Interfaces ---

// SessionStore holds live form sessions. Lock serializes mutations of a
// single session; the returned func releases the lock.
type SessionStore interface {
	Get(id string) (*FormSession, error)
	Put(sess *FormSession)
	Delete(id string)
	Lock(id string) (unlock func())
}

// OrderService is the external order-submission endpoint.
type OrderService interface {
	PlaceOrder(ctx context.Context, payload *OrderPayload) (*OrderResult, error)
}

// ProductPayload is the full product body pushed to the product service,
// including the variant matrix produced by the generator.
type ProductPayload struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Description   string          `json:"description,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	CategoryID    string          `json:"categoryId"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MRP           decimal.Decimal `json:"mrp"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	GSTPercent    int             `json:"gstPercent"`
	Quantity      int             `json:"quantity"`
	Images        []string        `json:"images,omitempty"`
	HasVariants   bool            `json:"hasVariants"`
	Variants      []Variant       `json:"variants,omitempty"`
}

type ProductResult struct {
	ProductID string `json:"productId"`
	Slug      string `json:"slug"`
}

// ProductService is the external product create/update endpoint.
type ProductService interface {
	CreateProduct(ctx context.Context, payload *ProductPayload) (*ProductResult, error)
	UpdateProduct(ctx context.Context, id string, payload *ProductPayload) (*ProductResult, error)
}

// CategoryService is the external product category list service.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]Category, error)
}

// AddressService is the external saved-address list service, keyed by the
// vendor identifier.
type AddressService interface {
	ListAddresses(ctx context.Context, vendorID string) ([]Address, error)
}
