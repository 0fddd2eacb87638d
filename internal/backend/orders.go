package backend

import (
	"context"
	"net/http"
	"strconv"

	"bloomadmin/internal/domain"
)

// ListOrderRows returns GET /orders as sent: one row per line item.
func (c *Client) ListOrderRows(ctx context.Context) ([]domain.OrderRow, error) {
	var out []domain.OrderRow
	if err := c.getJSON(ctx, "/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOrders returns the orders with their line items grouped.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := c.ListOrderRows(ctx)
	if err != nil {
		return nil, err
	}
	return domain.GroupOrders(rows), nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	path := "/orders/" + strconv.FormatInt(id, 10) + "/status"
	return c.sendJSON(ctx, http.MethodPut, path, map[string]string{"status": string(status)}, nil)
}
