package telebirr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/config"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"golang.org/x/time/rate"
)

const (
	pathToken     = "/payment/v1/token"
	pathAuthToken = "/payment/v1/auth/authToken"
	pathPreOrder  = "/payment/v1/merchant/preOrder"

	maxResponseBytes = 1 << 20
)

// Client is the gateway port used by the checkout and auth flows.
type Client interface {
	ApplyFabricToken(ctx context.Context) (*FabricToken, error)
	RequestAuthToken(ctx context.Context, fabricToken, appToken string) (json.RawMessage, error)
	PreOrder(ctx context.Context, fabricToken string, req PreOrderRequest) (*PreOrderResult, error)
	BuildRawRequest(prepayID string, tradeType domain.TradeType) (string, error)
}

type HTTPClient struct {
	cfg        config.TelebirrConfig
	signer     *Signer
	validator  *ResponseValidator
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

type Option func(*HTTPClient)

// WithClock replaces time.Now, for deterministic nonces and timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(c *HTTPClient) { c.now = now }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

func NewClient(cfg config.TelebirrConfig, signer *Signer, validator *ResponseValidator, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		cfg:       cfg,
		signer:    signer,
		validator: validator,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
		now: time.Now,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApplyFabricToken exchanges the app secret for a fabric token.
func (c *HTTPClient) ApplyFabricToken(ctx context.Context) (*FabricToken, error) {
	headers := map[string]string{"X-APP-Key": c.cfg.FabricAppID}
	body := FabricTokenRequest{AppSecret: c.cfg.AppSecret}

	resp, _, err := sendRequest[FabricTokenResponse](ctx, c, pathToken, body, headers, SchemaFabricToken)
	if err != nil {
		return nil, err
	}
	return resp.toToken(c.cfg.GatewayLocation()), nil
}

// RequestAuthToken exchanges a customer app token for an auth token and returns
// the gateway body unchanged once it passes schema validation.
func (c *HTTPClient) RequestAuthToken(ctx context.Context, fabricToken, appToken string) (json.RawMessage, error) {
	obj, err := c.newRequestObject(MethodAuthToken, map[string]any{
		"access_token":  appToken,
		"trade_type":    string(domain.TradeTypeInApp),
		"appid":         c.cfg.MerchantAppID,
		"resource_type": "OpenId",
	})
	if err != nil {
		return nil, err
	}

	_, raw, err := sendRequest[json.RawMessage](ctx, c, pathAuthToken, obj, c.authHeaders(fabricToken), SchemaAuthToken)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// PreOrder submits a signed payment.preorder and returns the prepay id.
func (c *HTTPClient) PreOrder(ctx context.Context, fabricToken string, req PreOrderRequest) (*PreOrderResult, error) {
	obj, err := c.newRequestObject(MethodPreOrder, c.preOrderBizContent(req))
	if err != nil {
		return nil, err
	}

	resp, _, err := sendRequest[PreOrderResponse](ctx, c, pathPreOrder, obj, c.authHeaders(fabricToken), SchemaPreOrder)
	if err != nil {
		return nil, err
	}

	if resp.BizContent == nil || resp.BizContent.PrepayID == "" {
		if resp.Result != "" && !strings.EqualFold(resp.Result, "SUCCESS") {
			return nil, &GatewayError{
				Code:       CodeRejected,
				Message:    fmt.Sprintf("pre-order rejected: code=%s msg=%s", resp.Code, resp.Msg),
				StatusCode: http.StatusOK,
			}
		}
		return nil, newMissingFieldError("biz_content.prepay_id", http.StatusOK)
	}

	merchOrderID := resp.BizContent.MerchOrderID
	if merchOrderID == "" {
		merchOrderID = req.MerchOrderID
	}

	return &PreOrderResult{
		MerchOrderID: merchOrderID,
		PrepayID:     resp.BizContent.PrepayID,
	}, nil
}

// BuildRawRequest builds the signed raw request that hands the prepay id to the
// customer: the sorted appid, merch_code, nonce_str, prepay_id and timestamp
// fields, their signature, then version and trade type.
func (c *HTTPClient) BuildRawRequest(prepayID string, tradeType domain.TradeType) (string, error) {
	if prepayID == "" {
		return "", newMissingFieldError("prepay_id", 0)
	}

	nonce, err := NewNonce()
	if err != nil {
		return "", err
	}

	obj := RequestObject{
		"appid":      c.cfg.MerchantAppID,
		"merch_code": c.cfg.MerchantCode,
		"nonce_str":  nonce,
		"prepay_id":  prepayID,
		"timestamp":  Timestamp(c.now()),
	}

	canonical := Canonicalize(obj)
	sig, err := c.signer.Sign(canonical)
	if err != nil {
		return "", err
	}

	return canonical +
		"&sign=" + sig +
		"&sign_type=" + SignTypeRSA +
		"&version=" + APIVersion +
		"&trade_type=" + string(tradeType), nil
}

func (c *HTTPClient) newRequestObject(method string, biz map[string]any) (RequestObject, error) {
	nonce, err := NewNonce()
	if err != nil {
		return nil, err
	}

	obj := RequestObject{
		"timestamp":     Timestamp(c.now()),
		"nonce_str":     nonce,
		"method":        method,
		"version":       APIVersion,
		FieldBizContent: biz,
	}
	if err := c.signer.SignRequest(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *HTTPClient) preOrderBizContent(req PreOrderRequest) map[string]any {
	title := req.Title
	if title == "" {
		title = c.cfg.Title
	}

	biz := map[string]any{
		"notify_url":            req.Variant.NotifyURL,
		"appid":                 c.cfg.MerchantAppID,
		"merch_code":            c.cfg.MerchantCode,
		"merch_order_id":        req.MerchOrderID,
		"trade_type":            string(req.Variant.TradeType),
		"title":                 title,
		"total_amount":          req.Amount.String(),
		"trans_currency":        domain.CurrencyETB,
		"timeout_express":       strconv.Itoa(int(c.cfg.TimeoutExpress.Minutes())) + "m",
		"business_type":         c.cfg.BusinessType,
		"payee_identifier":      c.cfg.MerchantCode,
		"payee_identifier_type": c.cfg.PayeeIdentifierType,
		"payee_type":            c.cfg.PayeeType,
	}
	if req.Variant.RedirectURL != "" {
		biz["redirect_url"] = req.Variant.RedirectURL
	}
	if req.Variant.Mandate != nil {
		biz["mandate_data"] = req.Variant.Mandate.fields()
	}
	return biz
}

func (c *HTTPClient) authHeaders(fabricToken string) map[string]string {
	return map[string]string{
		"X-APP-Key":     c.cfg.FabricAppID,
		"Authorization": fabricToken,
	}
}

func sendRequest[Resp any](ctx context.Context, c *HTTPClient, path string, reqBody any, headers map[string]string, schema string) (*Resp, []byte, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshalling json: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, &GatewayError{Code: CodeTransport, Message: "gateway unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, &GatewayError{Code: CodeTransport, Message: "reading gateway response", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp GatewayErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.ErrorCode == "" {
			return nil, nil, &GatewayError{
				Code:       CodeUnexpectedStatus,
				Message:    fmt.Sprintf("gateway returned status %d", resp.StatusCode),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, nil, &GatewayError{
			Code:       errResp.ErrorCode,
			Message:    errResp.ErrorMsg,
			StatusCode: resp.StatusCode,
		}
	}

	if err := c.validator.Validate(schema, body); err != nil {
		return nil, nil, &GatewayError{Code: CodeMalformed, Message: "unexpected response shape", StatusCode: resp.StatusCode, Err: err}
	}

	var out Resp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, nil, &GatewayError{Code: CodeMalformed, Message: "error decoding json response", StatusCode: resp.StatusCode, Err: err}
	}

	return &out, body, nil
}
