package stream

import "fmt"

// KlineTopic is the candle stream for one symbol and interval, e.g.
// "kline.5.BTCUSDT".
func KlineTopic(interval, symbol string) string {
	return fmt.Sprintf("kline.%s.%s", interval, symbol)
}

// TickerTopic is the ticker stream for one symbol.
func TickerTopic(symbol string) string {
	return fmt.Sprintf("tickers.%s", symbol)
}

// OrderbookTopic is the depth stream for one symbol at the given level
// count, e.g. "orderbook.50.BTCUSDT".
func OrderbookTopic(depth int, symbol string) string {
	return fmt.Sprintf("orderbook.%d.%s", depth, symbol)
}

// TradeTopic is the public trade stream for one symbol.
func TradeTopic(symbol string) string {
	return fmt.Sprintf("publicTrade.%s", symbol)
}

// Private stream topics.
const (
	TopicOrder     = "order"
	TopicExecution = "execution"
	TopicPosition  = "position"
	TopicWallet    = "wallet"
)
