package bybit

import (
	"context"
	"net/url"
)

// CreateOrder places a new order. Requires credentials.
//
// Example:
//
//	resp, err := client.CreateOrder(ctx, bybit.CreateOrderRequest{
//		Category:    bybit.CategoryLinear,
//		Symbol:      "BTCUSDT",
//		Side:        bybit.SideBuy,
//		OrderType:   bybit.OrderTypeLimit,
//		Qty:         "0.001",
//		Price:       "28000",
//		TimeInForce: bybit.TimeInForceGTC,
//	})
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	return post[CreateOrderResponse](ctx, c, "/v5/order/create", req)
}

// AmendOrder modifies an open order in place. Requires credentials.
func (c *Client) AmendOrder(ctx context.Context, req AmendOrderRequest) (*CreateOrderResponse, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	return post[CreateOrderResponse](ctx, c, "/v5/order/amend", req)
}

// cancelOrderRequest is the body of the cancel endpoint. Declared as a
// struct rather than an inline map so the field order of the signed body
// is deterministic.
type cancelOrderRequest struct {
	Category Category `json:"category"`
	Symbol   string   `json:"symbol"`
	OrderID  string   `json:"orderId"`
}

// CancelOrder cancels a single order by ID. Requires credentials.
func (c *Client) CancelOrder(ctx context.Context, category Category, symbol, orderID string) (*CreateOrderResponse, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	body := cancelOrderRequest{Category: category, Symbol: symbol, OrderID: orderID}
	return post[CreateOrderResponse](ctx, c, "/v5/order/cancel", body)
}

type cancelAllRequest struct {
	Category Category `json:"category"`
	Symbol   string   `json:"symbol,omitempty"`
}

// CancelAllResponse lists the orders removed by a cancel-all call.
type CancelAllResponse struct {
	List []CreateOrderResponse `json:"list"`
}

// CancelAllOrders cancels every open order on the symbol, or on the whole
// category when symbol is empty. Requires credentials.
func (c *Client) CancelAllOrders(ctx context.Context, category Category, symbol string) (*CancelAllResponse, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	body := cancelAllRequest{Category: category, Symbol: symbol}
	return post[CancelAllResponse](ctx, c, "/v5/order/cancel-all", body)
}

// GetOrder returns the current state of one order. Requires credentials.
func (c *Client) GetOrder(ctx context.Context, category Category, orderID string) (*ListResult[Order], error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("category", string(category))
	query.Set("orderId", orderID)
	return get[ListResult[Order]](ctx, c, "/v5/order/realtime", query)
}

// GetOpenOrders returns all open orders in the category. Requires
// credentials.
func (c *Client) GetOpenOrders(ctx context.Context, category Category) (*ListResult[Order], error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("category", string(category))
	return get[ListResult[Order]](ctx, c, "/v5/order/realtime", query)
}
