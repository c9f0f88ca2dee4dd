package tests

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "integration-secret"

// fakeGateway answers the three merchant endpoints the checkout flow calls.
type fakeGateway struct {
	server        *httptest.Server
	tokenCalls    atomic.Int32
	preOrders     atomic.Int32
	failPreOrders atomic.Bool

	mu        sync.Mutex
	lastOrder map[string]any
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	g := &fakeGateway{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /payment/v1/token", func(w http.ResponseWriter, r *http.Request) {
		g.tokenCalls.Add(1)
		exp := time.Now().Add(time.Hour).UTC().Format("20060102150405")
		writeJSON(w, http.StatusOK, map[string]string{
			"token":          "Bearer fabric-" + uuid.NewString()[:8],
			"effectiveDate":  time.Now().UTC().Format("20060102150405"),
			"expirationDate": exp,
		})
	})
	mux.HandleFunc("POST /payment/v1/merchant/preOrder", func(w http.ResponseWriter, r *http.Request) {
		g.preOrders.Add(1)
		if g.failPreOrders.Load() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"errorCode": "SYS_BUSY", "errorMsg": "busy"})
			return
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		biz, _ := body["biz_content"].(map[string]any)

		g.mu.Lock()
		g.lastOrder = biz
		g.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]any{
			"result": "SUCCESS",
			"code":   "0",
			"biz_content": map[string]any{
				"merch_order_id": biz["merch_order_id"],
				"prepay_id":      "prepay-" + uuid.NewString()[:8],
			},
		})
	})
	mux.HandleFunc("POST /payment/v1/auth/authToken", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"result":      "SUCCESS",
			"code":        "0",
			"biz_content": map[string]string{"access_token": "at", "open_id": "open-1"},
		})
	})

	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGateway) LastOrder() map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastOrder
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func testKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

// TestClient wraps HTTP calls to the storefront API.
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *rest.APIError `json:"error"`
}

// Do sends body as JSON and decodes the response envelope.
func Do[T any](t *testing.T, c *TestClient, method, path, userID, idempotencyKey string, body any) (int, envelope[T]) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", bearer(t, userID))
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}
