package gateway

import (
	"context"
	"fmt"

	"storeforms-backend/internal/domain"
)

// ProductClient talks to the product create/update endpoint.
type ProductClient struct {
	*Client
}

func NewProductClient(c *Client) *ProductClient {
	return &ProductClient{Client: c}
}

func (c *ProductClient) CreateProduct(ctx context.Context, payload *domain.ProductPayload) (*domain.ProductResult, error) {
	var result domain.ProductResult
	if err := c.post(ctx, "/api/v1/products", payload, &result); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &result, nil
}

func (c *ProductClient) UpdateProduct(ctx context.Context, id string, payload *domain.ProductPayload) (*domain.ProductResult, error) {
	var result domain.ProductResult
	if err := c.put(ctx, "/api/v1/products/"+id, payload, &result); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return &result, nil
}
