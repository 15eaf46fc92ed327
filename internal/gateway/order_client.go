package gateway

import (
	"context"
	"fmt"

	"storeforms-backend/internal/domain"
)

// OrderClient talks to the order-submission endpoint.
type OrderClient struct {
	*Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{Client: c}
}

func (c *OrderClient) PlaceOrder(ctx context.Context, payload *domain.OrderPayload) (*domain.OrderResult, error) {
	var result domain.OrderResult
	if err := c.post(ctx, "/api/v1/orders", payload, &result); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return &result, nil
}
