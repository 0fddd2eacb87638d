package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled/Returned"
)

var ErrBadStatus = errors.New("unknown order status")

// OrderStatuses lists the statuses in the order they are offered to admins.
var OrderStatuses = []OrderStatus{StatusPending, StatusDelivered, StatusCancelled}

// ParseOrderStatus matches s case-insensitively against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range OrderStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrBadStatus
}

type LineItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type Order struct {
	ID          int64           `json:"id"`
	UserName    string          `json:"user_name"`
	Items       []LineItem      `json:"items"`
	PaymentMode string          `json:"payment_mode"`
	Status      OrderStatus     `json:"status"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   Timestamp       `json:"created_at"`
}

// ProductNames returns the names of the order's line items in order.
func (o Order) ProductNames() []string {
	out := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		out = append(out, it.ProductName)
	}
	return out
}

// Quantity is the number of pieces across all line items.
func (o Order) Quantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// OrderRow is one line of GET /orders: the backend joins orders with their items,
// so an order with three items arrives as three rows.
type OrderRow struct {
	OrderID     int64           `json:"order_id"`
	OrderItemID int64           `json:"order_item_id"`
	UserName    string          `json:"user_name"`
	OrderTotal  decimal.Decimal `json:"order_total"`
	PaymentMode string          `json:"payment_mode"`
	Status      string          `json:"status"`
	CreatedAt   Timestamp       `json:"created_at"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	ItemTotal   decimal.Decimal `json:"item_total"`
	ImageURL    string          `json:"image_url"`
}

// GroupOrders folds rows into orders, keeping the order in which each order id first appears.
// Unknown statuses are kept verbatim so they still render.
func GroupOrders(rows []OrderRow) []Order {
	idx := map[int64]int{}
	var out []Order
	for _, r := range rows {
		i, ok := idx[r.OrderID]
		if !ok {
			st, err := ParseOrderStatus(r.Status)
			if err != nil {
				st = OrderStatus(r.Status)
			}
			out = append(out, Order{
				ID:          r.OrderID,
				UserName:    r.UserName,
				PaymentMode: r.PaymentMode,
				Status:      st,
				Total:       r.OrderTotal,
				CreatedAt:   r.CreatedAt,
			})
			i = len(out) - 1
			idx[r.OrderID] = i
		}
		out[i].Items = append(out[i].Items, LineItem{
			ID:          r.OrderItemID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Category:    r.Category,
			Quantity:    r.Quantity,
			Total:       r.ItemTotal,
			ImageURL:    r.ImageURL,
		})
	}
	return out
}
