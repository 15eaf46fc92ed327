package gateway

import (
	"context"
	"fmt"
	"net/url"

	"storeforms-backend/internal/domain"
)

// CatalogClient serves the category list and saved-address lookups used to
// populate form dropdowns and prefill the shipping step.
type CatalogClient struct {
	*Client
}

func NewCatalogClient(c *Client) *CatalogClient {
	return &CatalogClient{Client: c}
}

func (c *CatalogClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := c.get(ctx, "/api/v1/categories", &cats); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (c *CatalogClient) ListAddresses(ctx context.Context, vendorID string) ([]domain.Address, error) {
	var addrs []domain.Address
	path := "/api/v1/addresses?vendorId=" + url.QueryEscape(vendorID)
	if err := c.get(ctx, path, &addrs); err != nil {
		return nil, fmt.Errorf("list addresses for vendor %s: %w", vendorID, err)
	}
	return addrs, nil
}
