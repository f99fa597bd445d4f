package bybit

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetServerTime(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/time", r.URL.Path)
		io.WriteString(w, envelope(`{"timeSecond":"1700000000","timeNano":"1700000000123456789"}`))
	})

	serverTime, err := client.GetServerTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1700000000", serverTime.TimeSecond)
	assert.Equal(t, "1700000000123456789", serverTime.TimeNano)
}

func TestGetKline(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/kline", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "linear", query.Get("category"))
		assert.Equal(t, "BTCUSDT", query.Get("symbol"))
		assert.Equal(t, "15", query.Get("interval"))
		assert.Equal(t, "1670601600000", query.Get("start"))
		assert.Equal(t, "1670608800000", query.Get("end"))

		io.WriteString(w, envelope(`{
			"category":"linear",
			"symbol":"BTCUSDT",
			"list":[
				["1670608560000","17071","17073","17027","17055.5","268611","4.74899641"],
				["1670608500000","17071.5","17071.5","17061","17071","208864","3.4139416"]
			]
		}`))
	})

	result, err := client.GetKline(context.Background(), KlineParams{
		Category: CategoryLinear,
		Symbol:   "BTCUSDT",
		Interval: "15",
		Start:    1670601600000,
		End:      1670608800000,
	})
	require.NoError(t, err)
	require.Len(t, result.List, 2)

	first := result.List[0]
	assert.Equal(t, "1670608560000", first.StartTime)
	assert.Equal(t, "17071", first.Open)
	assert.Equal(t, "17055.5", first.Close)

	closePrice, err := first.ClosePrice()
	require.NoError(t, err)
	assert.True(t, closePrice.Equal(decimal.RequireFromString("17055.5")))
}

func TestGetKlineOmitsUnsetRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.False(t, query.Has("start"))
		assert.False(t, query.Has("end"))
		assert.False(t, query.Has("limit"))
		io.WriteString(w, envelope(`{"category":"linear","symbol":"BTCUSDT","list":[]}`))
	})

	_, err := client.GetKline(context.Background(), KlineParams{
		Category: CategoryLinear,
		Symbol:   "BTCUSDT",
		Interval: "1",
	})
	require.NoError(t, err)
}

func TestGetTickers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/tickers", r.URL.Path)
		assert.Equal(t, "linear", r.URL.Query().Get("category"))
		io.WriteString(w, envelope(`{
			"category":"linear",
			"list":[{
				"symbol":"BTCUSDT",
				"lastPrice":"50000.5",
				"indexPrice":"50001",
				"markPrice":"50000.9",
				"bid1Price":"50000",
				"bid1Size":"1.2",
				"ask1Price":"50000.5",
				"ask1Size":"0.8"
			}],
			"nextPageCursor":""
		}`))
	})

	tickers, err := client.GetTickers(context.Background(), CategoryLinear)
	require.NoError(t, err)
	require.Len(t, tickers.List, 1)

	ticker := tickers.List[0]
	assert.Equal(t, "BTCUSDT", ticker.Symbol)

	last, err := ticker.Last()
	require.NoError(t, err)
	assert.True(t, last.Equal(decimal.RequireFromString("50000.5")))

	spread, err := ticker.Spread()
	require.NoError(t, err)
	assert.True(t, spread.Equal(decimal.RequireFromString("0.5")))
}

func TestGetOrderbook(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/orderbook", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "BTCUSDT", query.Get("symbol"))
		assert.Equal(t, "25", query.Get("limit"))
		io.WriteString(w, envelope(`{
			"s":"BTCUSDT",
			"b":[["49999.5","2.0"],["49999","1.5"]],
			"a":[["50000.5","0.7"]],
			"ts":1700000000123,
			"u":17083455
		}`))
	})

	book, err := client.GetOrderbook(context.Background(), CategoryLinear, "BTCUSDT", 25)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", book.Symbol)
	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 1)

	price, err := book.Bids[0].Price()
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("49999.5")))

	size, err := book.Asks[0].Size()
	require.NoError(t, err)
	assert.True(t, size.Equal(decimal.RequireFromString("0.7")))
}

func TestGetInstruments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/instruments-info", r.URL.Path)
		io.WriteString(w, envelope(`{
			"category":"linear",
			"list":[{
				"symbol":"BTCUSDT",
				"contractType":"LinearPerpetual",
				"status":"Trading",
				"baseCoin":"BTC",
				"quoteCoin":"USDT",
				"settleCoin":"USDT",
				"priceScale":"2"
			}],
			"nextPageCursor":"cursor-1"
		}`))
	})

	instruments, err := client.GetInstruments(context.Background(), CategoryLinear)
	require.NoError(t, err)
	require.Len(t, instruments.List, 1)
	assert.Equal(t, "LinearPerpetual", instruments.List[0].ContractType)
	assert.Equal(t, "cursor-1", instruments.NextPageCursor)
}
