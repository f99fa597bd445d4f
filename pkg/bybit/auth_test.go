package bybit

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{APIKey: "testkey", APISecret: "testsecret"}

// Golden signature for the canonical string
// "1700000000000testkey5000category=linear&symbol=BTCUSDT" keyed by
// "testsecret".
const goldenSignature = "f2f79889fd1201752936b389c890e9d393e01e0311a6d8785fb80753aa26c69b"

func goldenRequest() SignableRequest {
	return SignableRequest{
		Timestamp:  1700000000000,
		RecvWindow: 5000,
		Payload:    "category=linear&symbol=BTCUSDT",
	}
}

func TestCanonicalString(t *testing.T) {
	req := goldenRequest()
	assert.Equal(t,
		"1700000000000testkey5000category=linear&symbol=BTCUSDT",
		req.CanonicalString("testkey"),
	)
}

func TestCanonicalStringEmptyPayload(t *testing.T) {
	req := SignableRequest{Timestamp: 1700000000000, RecvWindow: 5000}
	assert.Equal(t, "1700000000000testkey5000", req.CanonicalString("testkey"))
}

func TestSignGoldenVector(t *testing.T) {
	headers, err := Sign(testCreds, goldenRequest())
	require.NoError(t, err)
	assert.Equal(t, goldenSignature, headers.Get(HeaderSignature))
}

func TestSignPostBody(t *testing.T) {
	headers, err := Sign(testCreds, SignableRequest{
		Timestamp:  1700000000000,
		RecvWindow: 5000,
		Payload:    `{"category":"linear","symbol":"BTCUSDT"}`,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"f42da2d9c4b8c2d6d28353a1599894049533ee04291205fdda32dd85ed4de04b",
		headers.Get(HeaderSignature),
	)
}

func TestSignDeterministic(t *testing.T) {
	first, err := Sign(testCreds, goldenRequest())
	require.NoError(t, err)
	second, err := Sign(testCreds, goldenRequest())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignSensitivity(t *testing.T) {
	tests := []struct {
		name string
		req  SignableRequest
	}{
		{
			name: "payload changed by one byte",
			req: SignableRequest{
				Timestamp:  1700000000000,
				RecvWindow: 5000,
				Payload:    "category=linear&symbol=BTCUSDC",
			},
		},
		{
			name: "timestamp changed by one millisecond",
			req: SignableRequest{
				Timestamp:  1700000000001,
				RecvWindow: 5000,
				Payload:    "category=linear&symbol=BTCUSDT",
			},
		},
		{
			name: "recv window changed",
			req: SignableRequest{
				Timestamp:  1700000000000,
				RecvWindow: 6000,
				Payload:    "category=linear&symbol=BTCUSDT",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, err := Sign(testCreds, tt.req)
			require.NoError(t, err)
			assert.NotEqual(t, goldenSignature, headers.Get(HeaderSignature))
			assert.Len(t, headers.Get(HeaderSignature), 64)
		})
	}
}

func TestSignHeaderCompleteness(t *testing.T) {
	headers, err := Sign(testCreds, goldenRequest())
	require.NoError(t, err)

	assert.Len(t, headers, 4)
	assert.Equal(t, "testkey", headers.Get(HeaderAPIKey))
	assert.Equal(t, "1700000000000", headers.Get(HeaderTimestamp))
	assert.Equal(t, "5000", headers.Get(HeaderRecvWindow))
	assert.NotEmpty(t, headers.Get(HeaderSignature))
}

func TestSignMissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty secret", Credentials{APIKey: "testkey"}},
		{"empty key", Credentials{APISecret: "testsecret"}},
		{"both empty", Credentials{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, err := Sign(tt.creds, goldenRequest())
			assert.ErrorIs(t, err, ErrMissingCredentials)
			assert.Nil(t, headers)
		})
	}
}

func TestSignDistinctTimestamps(t *testing.T) {
	base := goldenRequest()
	later := base
	later.Timestamp = base.Timestamp + 137

	first, err := Sign(testCreds, base)
	require.NoError(t, err)
	second, err := Sign(testCreds, later)
	require.NoError(t, err)

	assert.NotEqual(t, first.Get(HeaderSignature), second.Get(HeaderSignature))
	assert.Len(t, first.Get(HeaderSignature), 64)
	assert.Len(t, second.Get(HeaderSignature), 64)
	assert.Equal(t, strconv.FormatInt(later.Timestamp, 10), second.Get(HeaderTimestamp))
}

func TestSignWebSocket(t *testing.T) {
	signature, err := SignWebSocket(testCreds, 1700000005000)
	require.NoError(t, err)
	assert.Equal(t,
		"2330de2041c701a1bf5a61887575a7a784add8c50269478c248edf1b43312515",
		signature,
	)
}

func TestSignWebSocketMissingCredentials(t *testing.T) {
	_, err := SignWebSocket(Credentials{}, 1700000005000)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("BYBIT_API_KEY", "envkey")
	t.Setenv("BYBIT_API_SECRET", "envsecret")

	creds, err := CredentialsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "envkey", creds.APIKey)
	assert.Equal(t, "envsecret", creds.APISecret)
}

func TestCredentialsFromEnvMissing(t *testing.T) {
	t.Setenv("BYBIT_API_KEY", "envkey")
	t.Setenv("BYBIT_API_SECRET", "")

	_, err := CredentialsFromEnv()
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
