// Package bybitclient is a typed Go client for the Bybit v5 API.
//
// The library covers the REST endpoints for market data, order management
// and account operations, and the public/private WebSocket streams. Its
// responsibility is narrow: build correctly signed HTTP requests,
// serialize and deserialize the exchange's JSON payloads into typed
// structures, and expose one typed method per endpoint.
//
// Core features:
//
//   - HMAC-SHA256 request signing with the X-BAPI header scheme
//   - Typed request/response structures with decimal-string price fields
//   - Market data: server time, klines, tickers, order book, instruments
//   - Trading: create, amend and cancel orders, open order queries
//   - Account: wallet balance, positions, leverage, executions, closed PnL
//   - WebSocket streams with keepalive, reconnect and private login
//   - Transport-level retries and rate limiting
//
// # REST usage
//
//	creds, err := bybit.CredentialsFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := bybit.NewClient(
//	    bybit.WithBaseURL(bybit.TestnetBaseURL),
//	    bybit.WithCredentials(creds),
//	)
//
//	tickers, err := client.GetTickers(ctx, bybit.CategoryLinear)
//	if err != nil {
//	    log.Fatalf("tickers: %v", err)
//	}
//
// # Error handling
//
// Local precondition failures surface before any network call:
//
//	_, err := client.GetWalletBalance(ctx, bybit.AccountTypeUnified)
//	if errors.Is(err, bybit.ErrMissingCredentials) {
//	    // configure BYBIT_API_KEY / BYBIT_API_SECRET
//	}
//
// Exchange-side rejections carry the exchange's own code and message:
//
//	var apiErr *bybit.APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("rejected: code=%d msg=%s", apiErr.RetCode, apiErr.RetMsg)
//	}
//	if errors.Is(err, bybit.ErrTimestamp) {
//	    // resynchronize the local clock or widen the recv window
//	}
//
// # Streams
//
//	sc := stream.NewClient(stream.Config{URL: stream.MainnetLinearURL})
//	if err := sc.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer sc.Close()
//
//	sc.Subscribe(stream.KlineTopic("1", "BTCUSDT"), func(msg []byte) {
//	    // decode the raw topic payload
//	})
//
// The library keeps no market state: stream payloads are delivered raw,
// and maintaining an order book from deltas is the caller's concern.
package bybitclient
