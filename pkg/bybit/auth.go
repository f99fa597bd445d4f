package bybit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
)

// Authentication header names required by the v5 API.
const (
	HeaderAPIKey     = "X-BAPI-API-KEY"
	HeaderTimestamp  = "X-BAPI-TIMESTAMP"
	HeaderRecvWindow = "X-BAPI-RECV-WINDOW"
	HeaderSignature  = "X-BAPI-SIGN"
)

// DefaultRecvWindow is the tolerance, in milliseconds, the server allows
// between the signed timestamp and its own clock.
const DefaultRecvWindow int64 = 5000

// Credentials holds the API key pair used to sign private requests.
// The secret is kept in memory for the lifetime of the client and is never
// logged or serialized.
type Credentials struct {
	APIKey    string
	APISecret string
}

// NewCredentials creates a credential pair from explicit values.
func NewCredentials(apiKey, apiSecret string) Credentials {
	return Credentials{APIKey: apiKey, APISecret: apiSecret}
}

// CredentialsFromEnv reads the key pair from the BYBIT_API_KEY and
// BYBIT_API_SECRET environment variables. It returns ErrMissingCredentials
// if either variable is unset or empty.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		APIKey:    os.Getenv("BYBIT_API_KEY"),
		APISecret: os.Getenv("BYBIT_API_SECRET"),
	}
	if creds.APIKey == "" || creds.APISecret == "" {
		return Credentials{}, ErrMissingCredentials
	}
	return creds, nil
}

// valid reports whether both halves of the key pair are present.
func (c Credentials) valid() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// SignableRequest carries the inputs of a single signature. Payload is the
// final serialized form of the request: the encoded query string for GET,
// the JSON body for POST. Signing anything other than the exact bytes put
// on the wire desynchronizes the signature from what the server
// reconstructs.
type SignableRequest struct {
	// Timestamp is the request time in milliseconds since the epoch. The
	// server rejects timestamps outside its recv window, so callers must
	// generate a fresh value per request.
	Timestamp int64

	// RecvWindow is the clock-skew tolerance in milliseconds.
	RecvWindow int64

	// Payload is the query string or JSON body exactly as transmitted.
	// Empty for requests without parameters.
	Payload string
}

// CanonicalString returns the exact byte sequence that is signed:
// timestamp, API key, recv window and payload concatenated with no
// separators, integers in decimal form.
func (r SignableRequest) CanonicalString(apiKey string) string {
	return strconv.FormatInt(r.Timestamp, 10) + apiKey +
		strconv.FormatInt(r.RecvWindow, 10) + r.Payload
}

// Sign produces the four authentication headers for a private request.
//
// The signature is the lowercase hex HMAC-SHA256 digest of the canonical
// string keyed by the API secret. Sign is a pure function: identical inputs
// always produce identical headers, the input request is not mutated, and
// no I/O occurs. It returns ErrMissingCredentials, before any hashing, if
// either half of the key pair is empty.
//
// Example:
//
//	headers, err := bybit.Sign(creds, bybit.SignableRequest{
//		Timestamp:  time.Now().UnixMilli(),
//		RecvWindow: bybit.DefaultRecvWindow,
//		Payload:    "category=linear&symbol=BTCUSDT",
//	})
func Sign(creds Credentials, req SignableRequest) (http.Header, error) {
	if !creds.valid() {
		return nil, ErrMissingCredentials
	}

	signature := signPayload(creds.APISecret, req.CanonicalString(creds.APIKey))

	headers := make(http.Header, 4)
	headers.Set(HeaderAPIKey, creds.APIKey)
	headers.Set(HeaderTimestamp, strconv.FormatInt(req.Timestamp, 10))
	headers.Set(HeaderRecvWindow, strconv.FormatInt(req.RecvWindow, 10))
	headers.Set(HeaderSignature, signature)
	return headers, nil
}

// SignWebSocket produces the signature for the private stream login
// message: the hex HMAC-SHA256 digest of "GET/realtime" followed by the
// expiry timestamp in milliseconds.
func SignWebSocket(creds Credentials, expires int64) (string, error) {
	if !creds.valid() {
		return "", ErrMissingCredentials
	}
	return signPayload(creds.APISecret, "GET/realtime"+strconv.FormatInt(expires, 10)), nil
}

func signPayload(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
