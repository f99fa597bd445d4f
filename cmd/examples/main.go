// Command examples demonstrates the Bybit client against the testnet
// environment. Public market data always runs; order and account examples
// run only when BYBIT_API_KEY and BYBIT_API_SECRET are set.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/veiloq/bybit-client/pkg/bybit"
	"github.com/veiloq/bybit-client/pkg/logging"
	"github.com/veiloq/bybit-client/pkg/stream"
)

func main() {
	logger := logging.NewZapLogger(logging.WithDevelopmentMode())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []bybit.Option{
		bybit.WithBaseURL(bybit.TestnetBaseURL),
		bybit.WithLogger(logger),
	}

	creds, credsErr := bybit.CredentialsFromEnv()
	if credsErr == nil {
		opts = append(opts, bybit.WithCredentials(creds))
	}

	client := bybit.NewClient(opts...)

	marketData(ctx, client)

	if credsErr != nil {
		fmt.Println("\nset BYBIT_API_KEY and BYBIT_API_SECRET to run the private examples")
	} else {
		orderManagement(ctx, client)
		accountManagement(ctx, client)
	}

	liveTicker(ctx, logger)
}

func marketData(ctx context.Context, client *bybit.Client) {
	serverTime, err := client.GetServerTime(ctx)
	if err != nil {
		fmt.Printf("server time: %v\n", err)
		return
	}
	fmt.Printf("server time: %s\n", serverTime.TimeSecond)

	tickers, err := client.GetTickers(ctx, bybit.CategoryLinear)
	if err != nil {
		fmt.Printf("tickers: %v\n", err)
		return
	}
	for i, ticker := range tickers.List {
		if i >= 3 {
			break
		}
		fmt.Printf("%-12s last=%s mark=%s\n", ticker.Symbol, ticker.LastPrice, ticker.MarkPrice)
	}

	book, err := client.GetOrderbook(ctx, bybit.CategoryLinear, "BTCUSDT", 5)
	if err != nil {
		fmt.Printf("orderbook: %v\n", err)
		return
	}
	if len(book.Bids) > 0 && len(book.Asks) > 0 {
		fmt.Printf("BTCUSDT top of book: bid=%s ask=%s\n", book.Bids[0][0], book.Asks[0][0])
	}

	klines, err := client.GetKline(ctx, bybit.KlineParams{
		Category: bybit.CategoryLinear,
		Symbol:   "BTCUSDT",
		Interval: "60",
		Limit:    3,
	})
	if err != nil {
		fmt.Printf("kline: %v\n", err)
		return
	}
	for _, kline := range klines.List {
		fmt.Printf("kline start=%s open=%s close=%s\n", kline.StartTime, kline.Open, kline.Close)
	}
}

func orderManagement(ctx context.Context, client *bybit.Client) {
	resp, err := client.CreateOrder(ctx, bybit.CreateOrderRequest{
		Category:    bybit.CategoryLinear,
		Symbol:      "BTCUSDT",
		Side:        bybit.SideBuy,
		OrderType:   bybit.OrderTypeLimit,
		Qty:         "0.001",
		Price:       "10000", // far from market so it rests
		TimeInForce: bybit.TimeInForceGTC,
	})
	if err != nil {
		fmt.Printf("create order: %v\n", err)
		return
	}
	fmt.Printf("placed order %s\n", resp.OrderID)

	open, err := client.GetOpenOrders(ctx, bybit.CategoryLinear)
	if err != nil {
		fmt.Printf("open orders: %v\n", err)
	} else {
		fmt.Printf("%d open orders\n", len(open.List))
	}

	if _, err := client.CancelOrder(ctx, bybit.CategoryLinear, "BTCUSDT", resp.OrderID); err != nil {
		fmt.Printf("cancel order: %v\n", err)
	} else {
		fmt.Printf("cancelled order %s\n", resp.OrderID)
	}
}

func accountManagement(ctx context.Context, client *bybit.Client) {
	balance, err := client.GetWalletBalance(ctx, bybit.AccountTypeUnified)
	if err != nil {
		fmt.Printf("wallet balance: %v\n", err)
		return
	}
	for _, account := range balance.List {
		fmt.Printf("account %s equity=%s\n", account.AccountType, account.TotalEquity)
	}

	positions, err := client.GetPositions(ctx, bybit.CategoryLinear, "")
	if err != nil {
		fmt.Printf("positions: %v\n", err)
		return
	}
	fmt.Printf("%d open positions\n", len(positions.List))
}

func liveTicker(ctx context.Context, logger logging.Logger) {
	streamClient := stream.NewClient(stream.Config{
		URL:    stream.TestnetLinearURL,
		Logger: logger,
	})

	if err := streamClient.Connect(ctx); err != nil {
		fmt.Printf("stream connect: %v\n", err)
		return
	}
	defer streamClient.Close()

	err := streamClient.Subscribe(stream.TickerTopic("BTCUSDT"), func(message []byte) {
		fmt.Printf("ticker update: %s\n", message)
	})
	if err != nil {
		fmt.Printf("subscribe: %v\n", err)
		return
	}

	fmt.Println("streaming BTCUSDT ticker for 30s, ctrl-c to stop")
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
	}
}
