package bybit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient wires a client to an httptest server with fixed
// credentials and a deterministic clock.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(
		WithBaseURL(server.URL),
		WithCredentials(testCreds),
		WithTimeout(5*time.Second),
	)
	client.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return client
}

// recompute mirrors the server-side signature verification.
func recompute(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

func envelope(result string) string {
	return `{"retCode":0,"retMsg":"OK","result":` + result + `,"retExtInfo":{},"time":1700000000123}`
}

func TestClientSignsGetOverEncodedQuery(t *testing.T) {
	var verified bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ts := r.Header.Get(HeaderTimestamp)
		key := r.Header.Get(HeaderAPIKey)
		recv := r.Header.Get(HeaderRecvWindow)

		// The server reconstructs the canonical string from the query
		// exactly as received.
		canonical := ts + key + recv + r.URL.RawQuery
		assert.Equal(t, recompute("testsecret", canonical), r.Header.Get(HeaderSignature))
		verified = true

		io.WriteString(w, envelope(`{"category":"linear","list":[],"nextPageCursor":""}`))
	})

	_, err := client.GetTickers(context.Background(), CategoryLinear)
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestClientSignsPostOverExactBody(t *testing.T) {
	var verified bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		canonical := r.Header.Get(HeaderTimestamp) + r.Header.Get(HeaderAPIKey) +
			r.Header.Get(HeaderRecvWindow) + string(body)
		assert.Equal(t, recompute("testsecret", canonical), r.Header.Get(HeaderSignature))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		verified = true

		io.WriteString(w, envelope(`{"orderId":"1","orderLinkId":""}`))
	})

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Category:  CategoryLinear,
		Symbol:    "BTCUSDT",
		Side:      SideBuy,
		OrderType: OrderTypeMarket,
		Qty:       "0.001",
	})
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestClientFreshTimestampPerRequest(t *testing.T) {
	var timestamps, signatures []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		timestamps = append(timestamps, r.Header.Get(HeaderTimestamp))
		signatures = append(signatures, r.Header.Get(HeaderSignature))
		io.WriteString(w, envelope(`{"category":"linear","list":[]}`))
	})

	next := int64(1700000000000)
	client.now = func() time.Time {
		next++
		return time.UnixMilli(next)
	}

	ctx := context.Background()
	_, err := client.GetTickers(ctx, CategoryLinear)
	require.NoError(t, err)
	_, err = client.GetTickers(ctx, CategoryLinear)
	require.NoError(t, err)

	require.Len(t, timestamps, 2)
	assert.NotEqual(t, timestamps[0], timestamps[1])
	assert.NotEqual(t, signatures[0], signatures[1])
}

func TestClientWithoutCredentialsSendsNoAuthHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(HeaderAPIKey))
		assert.Empty(t, r.Header.Get(HeaderSignature))
		io.WriteString(w, envelope(`{"timeSecond":"1700000000","timeNano":"1700000000000000000"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.GetServerTime(context.Background())
	require.NoError(t, err)
}

func TestClientPrivateEndpointRequiresCredentials(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	ctx := context.Background()
	_, err := client.GetWalletBalance(ctx, AccountTypeUnified)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = client.CreateOrder(ctx, CreateOrderRequest{
		Category: CategoryLinear, Symbol: "BTCUSDT", Side: SideBuy, OrderType: OrderTypeMarket,
	})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	assert.False(t, called, "no network call may happen without credentials")
}

func TestClientAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"retCode":10001,"retMsg":"params error","result":{},"time":1}`)
	})

	_, err := client.GetTickers(context.Background(), CategoryLinear)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 10001, apiErr.RetCode)
	assert.Equal(t, "params error", apiErr.RetMsg)
	assert.Contains(t, apiErr.Error(), "10001")
}

func TestClientTimestampRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"retCode":10002,"retMsg":"invalid request, please check your server timestamp","result":{},"time":1}`)
	})

	_, err := client.GetOpenOrders(context.Background(), CategoryLinear)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimestamp)
}

func TestClientRecvWindowHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "9000", r.Header.Get(HeaderRecvWindow))
		io.WriteString(w, envelope(`{"category":"linear","list":[]}`))
	}))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithCredentials(testCreds),
		WithRecvWindow(9000),
	)

	_, err := client.GetTickers(context.Background(), CategoryLinear)
	require.NoError(t, err)
}

func TestClientUndecodableResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	})

	_, err := client.GetServerTime(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestHasCredentials(t *testing.T) {
	assert.False(t, NewClient().HasCredentials())
	assert.True(t, NewClient(WithCredentials(testCreds)).HasCredentials())
}
