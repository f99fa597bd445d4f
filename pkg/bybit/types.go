package bybit

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category is the product category an endpoint operates on.
type Category string

const (
	CategoryLinear  Category = "linear"
	CategoryInverse Category = "inverse"
	CategorySpot    Category = "spot"
	CategoryOption  Category = "option"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// OrderType distinguishes market and limit orders.
type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

// TimeInForce is the execution strategy of an order.
type TimeInForce string

const (
	TimeInForceGTC      TimeInForce = "GTC"
	TimeInForceIOC      TimeInForce = "IOC"
	TimeInForceFOK      TimeInForce = "FOK"
	TimeInForcePostOnly TimeInForce = "PostOnly"
	TimeInForceRPI      TimeInForce = "RPI"
)

// OrderStatus is the lifecycle state of an order as reported by the
// exchange.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCancelled       OrderStatus = "Cancelled"
	OrderStatusRejected        OrderStatus = "Rejected"
)

// AccountType selects which wallet a balance query addresses.
type AccountType string

const (
	AccountTypeUnified  AccountType = "UNIFIED"
	AccountTypeContract AccountType = "CONTRACT"
	AccountTypeSpot     AccountType = "SPOT"
)

// response is the envelope wrapping every v5 API response.
type response[T any] struct {
	RetCode    int             `json:"retCode"`
	RetMsg     string          `json:"retMsg"`
	Result     T               `json:"result"`
	RetExtInfo json.RawMessage `json:"retExtInfo"`
	Time       int64           `json:"time"`
}

// ListResult is the generic paginated container most list endpoints return.
// NextPageCursor is empty on the final page.
type ListResult[T any] struct {
	Category       Category `json:"category,omitempty"`
	List           []T      `json:"list"`
	NextPageCursor string   `json:"nextPageCursor,omitempty"`
}

// ServerTime is the exchange's clock.
type ServerTime struct {
	TimeSecond string `json:"timeSecond"`
	TimeNano   string `json:"timeNano"`
}

// Ticker is a market snapshot for one symbol. Price and size fields are
// decimal strings on the wire; use the accessor methods for arithmetic.
type Ticker struct {
	Symbol     string `json:"symbol"`
	LastPrice  string `json:"lastPrice"`
	IndexPrice string `json:"indexPrice"`
	MarkPrice  string `json:"markPrice"`
	Bid1Price  string `json:"bid1Price"`
	Bid1Size   string `json:"bid1Size"`
	Ask1Price  string `json:"ask1Price"`
	Ask1Size   string `json:"ask1Size"`
}

// Last returns the last traded price as a decimal.
func (t Ticker) Last() (decimal.Decimal, error) {
	return decimal.NewFromString(t.LastPrice)
}

// Mark returns the mark price as a decimal.
func (t Ticker) Mark() (decimal.Decimal, error) {
	return decimal.NewFromString(t.MarkPrice)
}

// Spread returns the distance between the best ask and the best bid.
func (t Ticker) Spread() (decimal.Decimal, error) {
	bid, err := decimal.NewFromString(t.Bid1Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing bid price %q: %w", t.Bid1Price, err)
	}
	ask, err := decimal.NewFromString(t.Ask1Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing ask price %q: %w", t.Ask1Price, err)
	}
	return ask.Sub(bid), nil
}

// PriceLevel is one [price, size] pair of an order book side.
type PriceLevel [2]string

// Price returns the level's price as a decimal.
func (l PriceLevel) Price() (decimal.Decimal, error) {
	return decimal.NewFromString(l[0])
}

// Size returns the level's size as a decimal.
func (l PriceLevel) Size() (decimal.Decimal, error) {
	return decimal.NewFromString(l[1])
}

// OrderBook is a depth snapshot. Bids descend from the best bid, asks
// ascend from the best ask, both exactly as delivered by the exchange.
type OrderBook struct {
	Symbol   string       `json:"s"`
	Bids     []PriceLevel `json:"b"`
	Asks     []PriceLevel `json:"a"`
	Time     int64        `json:"ts"`
	UpdateID int64        `json:"u"`
}

// Kline is a single candle. The exchange serializes candles as positional
// string arrays [start, open, high, low, close, volume, turnover].
type Kline struct {
	StartTime string
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
	Turnover  string
}

// UnmarshalJSON decodes the positional array form.
func (k *Kline) UnmarshalJSON(data []byte) error {
	var row []string
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	if len(row) < 7 {
		return fmt.Errorf("kline row has %d fields, want 7", len(row))
	}
	k.StartTime = row[0]
	k.Open = row[1]
	k.High = row[2]
	k.Low = row[3]
	k.Close = row[4]
	k.Volume = row[5]
	k.Turnover = row[6]
	return nil
}

// MarshalJSON encodes back to the positional array form.
func (k Kline) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{
		k.StartTime, k.Open, k.High, k.Low, k.Close, k.Volume, k.Turnover,
	})
}

// ClosePrice returns the close as a decimal.
func (k Kline) ClosePrice() (decimal.Decimal, error) {
	return decimal.NewFromString(k.Close)
}

// KlineResult is the result shape of the kline endpoint; it is not
// cursor-paginated.
type KlineResult struct {
	Category Category `json:"category"`
	Symbol   string   `json:"symbol"`
	List     []Kline  `json:"list"`
}

// InstrumentInfo describes one tradable contract.
type InstrumentInfo struct {
	Symbol       string `json:"symbol"`
	ContractType string `json:"contractType"`
	Status       string `json:"status"`
	BaseCoin     string `json:"baseCoin"`
	QuoteCoin    string `json:"quoteCoin"`
	SettleCoin   string `json:"settleCoin"`
	PriceScale   string `json:"priceScale"`
}

// Order is a single order as reported by the order endpoints.
type Order struct {
	OrderID        string      `json:"orderId"`
	OrderLinkID    string      `json:"orderLinkId"`
	Symbol         string      `json:"symbol"`
	Side           Side        `json:"side"`
	OrderType      OrderType   `json:"orderType"`
	Price          string      `json:"price"`
	Qty            string      `json:"qty"`
	TimeInForce    TimeInForce `json:"timeInForce"`
	CreateType     string      `json:"createType"`
	CancelType     string      `json:"cancelType"`
	OrderStatus    OrderStatus `json:"orderStatus"`
	LeavesQty      string      `json:"leavesQty"`
	CumExecQty     string      `json:"cumExecQty"`
	AvgPrice       string      `json:"avgPrice"`
	CreatedTime    string      `json:"createdTime"`
	UpdatedTime    string      `json:"updatedTime"`
	PositionIdx    int         `json:"positionIdx"`
	TriggerPrice   string      `json:"triggerPrice,omitempty"`
	TakeProfit     string      `json:"takeProfit,omitempty"`
	StopLoss       string      `json:"stopLoss,omitempty"`
	ReduceOnly     bool        `json:"reduceOnly,omitempty"`
	CloseOnTrigger bool        `json:"closeOnTrigger,omitempty"`
}

// Position is one open position.
type Position struct {
	Symbol         string `json:"symbol"`
	PositionIdx    int    `json:"positionIdx"`
	PositionStatus string `json:"positionStatus"`
	Side           Side   `json:"side"`
	Size           string `json:"size"`
	PositionValue  string `json:"positionValue"`
	UnrealisedPnl  string `json:"unrealisedPnl"`
	AvgPrice       string `json:"avgPrice"`
	Leverage       string `json:"leverage"`
}

// WalletBalance is the result of the wallet-balance endpoint.
type WalletBalance struct {
	List []AccountBalance `json:"list"`
}

// AccountBalance aggregates one account's equity and margin figures.
type AccountBalance struct {
	AccountType            AccountType   `json:"accountType"`
	AccountIMRate          string        `json:"accountIMRate"`
	AccountMMRate          string        `json:"accountMMRate"`
	TotalEquity            string        `json:"totalEquity"`
	TotalWalletBalance     string        `json:"totalWalletBalance"`
	TotalMarginBalance     string        `json:"totalMarginBalance"`
	TotalAvailableBalance  string        `json:"totalAvailableBalance"`
	TotalPerpUPL           string        `json:"totalPerpUPL"`
	TotalInitialMargin     string        `json:"totalInitialMargin"`
	TotalMaintenanceMargin string        `json:"totalMaintenanceMargin"`
	Coin                   []CoinBalance `json:"coin"`
}

// Equity returns the account's total equity as a decimal.
func (b AccountBalance) Equity() (decimal.Decimal, error) {
	return decimal.NewFromString(b.TotalEquity)
}

// CoinBalance is the per-coin breakdown inside an account balance.
type CoinBalance struct {
	Coin            string `json:"coin"`
	WalletBalance   string `json:"walletBalance"`
	Equity          string `json:"equity"`
	UsdValue        string `json:"usdValue"`
	UnrealisedPnl   string `json:"unrealisedPnl"`
	TransferBalance string `json:"transferBalance,omitempty"`
}

// Execution is one fill from the execution list endpoint.
type Execution struct {
	Symbol      string `json:"symbol"`
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
	Side        Side   `json:"side"`
	ExecID      string `json:"execId"`
	ExecPrice   string `json:"execPrice"`
	ExecQty     string `json:"execQty"`
	ExecFee     string `json:"execFee"`
	ExecTime    string `json:"execTime"`
	IsMaker     bool   `json:"isMaker"`
}

// ClosedPnL is one realized-PnL record.
type ClosedPnL struct {
	Symbol      string `json:"symbol"`
	OrderID     string `json:"orderId"`
	Side        Side   `json:"side"`
	Qty         string `json:"qty"`
	OrderPrice  string `json:"orderPrice"`
	AvgEntry    string `json:"avgEntryPrice"`
	AvgExit     string `json:"avgExitPrice"`
	ClosedPnl   string `json:"closedPnl"`
	CreatedTime string `json:"createdTime"`
	UpdatedTime string `json:"updatedTime"`
}

// CreateOrderRequest is the body of the order-create endpoint. Optional
// fields are omitted from the JSON entirely when unset so the signed body
// matches the transmitted body byte for byte. Quantities and prices are
// decimal strings per the current documented wire format.
type CreateOrderRequest struct {
	Category       Category    `json:"category"`
	Symbol         string      `json:"symbol"`
	Side           Side        `json:"side"`
	OrderType      OrderType   `json:"orderType"`
	Qty            string      `json:"qty,omitempty"`
	Price          string      `json:"price,omitempty"`
	TimeInForce    TimeInForce `json:"timeInForce,omitempty"`
	PositionIdx    *int        `json:"positionIdx,omitempty"`
	OrderLinkID    string      `json:"orderLinkId,omitempty"`
	TriggerPrice   string      `json:"triggerPrice,omitempty"`
	TakeProfit     string      `json:"takeProfit,omitempty"`
	StopLoss       string      `json:"stopLoss,omitempty"`
	ReduceOnly     *bool       `json:"reduceOnly,omitempty"`
	CloseOnTrigger *bool       `json:"closeOnTrigger,omitempty"`
	TriggerBy      string      `json:"triggerBy,omitempty"`
	TpTriggerBy    string      `json:"tpTriggerBy,omitempty"`
	SlTriggerBy    string      `json:"slTriggerBy,omitempty"`
	OrderFilter    string      `json:"orderFilter,omitempty"`
}

// CreateOrderResponse identifies the accepted order.
type CreateOrderResponse struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
}

// AmendOrderRequest is the body of the order-amend endpoint. Either
// OrderID or OrderLinkID identifies the order; only the fields being
// changed are set.
type AmendOrderRequest struct {
	Category     Category `json:"category"`
	Symbol       string   `json:"symbol"`
	OrderID      string   `json:"orderId,omitempty"`
	OrderLinkID  string   `json:"orderLinkId,omitempty"`
	Qty          string   `json:"qty,omitempty"`
	Price        string   `json:"price,omitempty"`
	TriggerPrice string   `json:"triggerPrice,omitempty"`
	TakeProfit   string   `json:"takeProfit,omitempty"`
	StopLoss     string   `json:"stopLoss,omitempty"`
}
