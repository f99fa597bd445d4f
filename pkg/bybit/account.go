package bybit

import (
	"context"
	"net/url"
)

// GetWalletBalance returns equity and margin figures per account. An empty
// accountType queries the unified account. Requires credentials.
func (c *Client) GetWalletBalance(ctx context.Context, accountType AccountType) (*WalletBalance, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	query := url.Values{}
	if accountType == "" {
		accountType = AccountTypeUnified
	}
	query.Set("accountType", string(accountType))
	return get[WalletBalance](ctx, c, "/v5/account/wallet-balance", query)
}

// GetPositions returns open positions, optionally filtered to one symbol.
// Requires credentials.
func (c *Client) GetPositions(ctx context.Context, category Category, symbol string) (*ListResult[Position], error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("category", string(category))
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	return get[ListResult[Position]](ctx, c, "/v5/position/list", query)
}

// setLeverageRequest keeps the signed body's field order deterministic.
type setLeverageRequest struct {
	Category     Category `json:"category"`
	Symbol       string   `json:"symbol"`
	BuyLeverage  string   `json:"buyLeverage"`
	SellLeverage string   `json:"sellLeverage"`
}

// SetLeverage sets buy and sell leverage for a symbol. Leverage values are
// decimal strings, e.g. "10". Requires credentials.
func (c *Client) SetLeverage(ctx context.Context, category Category, symbol, buyLeverage, sellLeverage string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	body := setLeverageRequest{
		Category:     category,
		Symbol:       symbol,
		BuyLeverage:  buyLeverage,
		SellLeverage: sellLeverage,
	}
	_, err := post[struct{}](ctx, c, "/v5/position/set-leverage", body)
	return err
}

// GetExecutions returns recent fills, optionally filtered to one symbol.
// Requires credentials.
func (c *Client) GetExecutions(ctx context.Context, category Category, symbol string) (*ListResult[Execution], error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("category", string(category))
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	return get[ListResult[Execution]](ctx, c, "/v5/execution/list", query)
}

// GetClosedPnL returns realized PnL records, optionally filtered to one
// symbol. Requires credentials.
func (c *Client) GetClosedPnL(ctx context.Context, category Category, symbol string) (*ListResult[ClosedPnL], error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("category", string(category))
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	return get[ListResult[ClosedPnL]](ctx, c, "/v5/position/closed-pnl", query)
}
