package bybit

import (
	"context"
	"net/url"
	"strconv"
)

// GetServerTime returns the exchange's clock. Useful for diagnosing
// timestamp rejections on signed requests.
func (c *Client) GetServerTime(ctx context.Context) (*ServerTime, error) {
	return get[ServerTime](ctx, c, "/v5/market/time", nil)
}

// KlineParams selects the candle series to fetch. Start and End are
// millisecond timestamps; zero values are omitted from the query.
type KlineParams struct {
	Category Category
	Symbol   string
	Interval string
	Start    int64
	End      int64
	Limit    int
}

// GetKline returns historical candles, newest first.
//
// Example:
//
//	klines, err := client.GetKline(ctx, bybit.KlineParams{
//		Category: bybit.CategoryLinear,
//		Symbol:   "BTCUSDT",
//		Interval: "15",
//	})
func (c *Client) GetKline(ctx context.Context, params KlineParams) (*KlineResult, error) {
	query := url.Values{}
	query.Set("category", string(params.Category))
	query.Set("symbol", params.Symbol)
	query.Set("interval", params.Interval)
	if params.Start > 0 {
		query.Set("start", strconv.FormatInt(params.Start, 10))
	}
	if params.End > 0 {
		query.Set("end", strconv.FormatInt(params.End, 10))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	return get[KlineResult](ctx, c, "/v5/market/kline", query)
}

// GetTickers returns a market snapshot for every symbol in the category.
func (c *Client) GetTickers(ctx context.Context, category Category) (*ListResult[Ticker], error) {
	query := url.Values{}
	query.Set("category", string(category))
	return get[ListResult[Ticker]](ctx, c, "/v5/market/tickers", query)
}

// GetOrderbook returns a depth snapshot with up to limit levels per side.
func (c *Client) GetOrderbook(ctx context.Context, category Category, symbol string, limit int) (*OrderBook, error) {
	query := url.Values{}
	query.Set("category", string(category))
	query.Set("symbol", symbol)
	query.Set("limit", strconv.Itoa(limit))
	return get[OrderBook](ctx, c, "/v5/market/orderbook", query)
}

// GetInstruments returns the tradable contracts in the category.
func (c *Client) GetInstruments(ctx context.Context, category Category) (*ListResult[InstrumentInfo], error) {
	query := url.Values{}
	query.Set("category", string(category))
	return get[ListResult[InstrumentInfo]](ctx, c, "/v5/market/instruments-info", query)
}
