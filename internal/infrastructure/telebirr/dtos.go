package telebirr

import (
	"encoding/json"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
)

// gatewayTimeLayout is the yyyyMMddHHmmss form used in token responses.
const gatewayTimeLayout = "20060102150405"

type FabricTokenRequest struct {
	AppSecret string `json:"appSecret"`
}

type FabricTokenResponse struct {
	Token          string `json:"token"`
	EffectiveDate  string `json:"effectiveDate"`
	ExpirationDate string `json:"expirationDate"`
}

// FabricToken is the short-lived bearer credential for merchant calls.
type FabricToken struct {
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the token can still be used at now, keeping skew in hand.
func (t *FabricToken) Valid(now time.Time, skew time.Duration) bool {
	if t == nil || t.Token == "" {
		return false
	}
	if t.ExpiresAt.IsZero() {
		return true
	}
	return now.Add(skew).Before(t.ExpiresAt)
}

func (r *FabricTokenResponse) toToken(loc *time.Location) *FabricToken {
	token := &FabricToken{Token: r.Token}
	if r.ExpirationDate != "" {
		if exp, err := time.ParseInLocation(gatewayTimeLayout, r.ExpirationDate, loc); err == nil {
			token.ExpiresAt = exp
		}
	}
	return token
}

// MandateData is attached to in-app subscription (mandate) pre-orders.
type MandateData struct {
	ContractNo  string `json:"mctContractNo"`
	TemplateID  string `json:"mandateTemplateId"`
	ExecuteTime string `json:"executeTime"`
}

func (m *MandateData) fields() map[string]any {
	return map[string]any{
		"mctContractNo":     m.ContractNo,
		"mandateTemplateId": m.TemplateID,
		"executeTime":       m.ExecuteTime,
	}
}

// OrderVariant parameterizes the pre-order flow: web checkout and in-app
// mandate orders differ only in these values.
type OrderVariant struct {
	TradeType   domain.TradeType
	NotifyURL   string
	RedirectURL string
	Mandate     *MandateData
}

type PreOrderRequest struct {
	MerchOrderID string
	Title        string
	Amount       domain.Money
	Variant      OrderVariant
}

type PreOrderBizContent struct {
	MerchOrderID string `json:"merch_order_id"`
	PrepayID     string `json:"prepay_id"`
}

type PreOrderResponse struct {
	Result     string              `json:"result"`
	Code       string              `json:"code"`
	Msg        string              `json:"msg"`
	NonceStr   string              `json:"nonce_str"`
	Sign       string              `json:"sign"`
	SignType   string              `json:"sign_type"`
	BizContent *PreOrderBizContent `json:"biz_content"`
}

type PreOrderResult struct {
	MerchOrderID string
	PrepayID     string
}

// AuthTokenResponse is the gateway body returned verbatim to the caller.
type AuthTokenResponse = json.RawMessage
