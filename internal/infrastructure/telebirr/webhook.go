package telebirr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// WebhookVerifier checks the HMAC the gateway attaches to payment notifications.
type WebhookVerifier struct {
	appKey []byte
}

func NewWebhookVerifier(appKey string) *WebhookVerifier {
	return &WebhookVerifier{appKey: []byte(appKey)}
}

// Compute returns the lowercase hex HMAC-SHA256 of "orderId=<id>&totalAmount=<amount>".
func (v *WebhookVerifier) Compute(orderID, totalAmount string) string {
	mac := hmac.New(sha256.New, v.appKey)
	mac.Write([]byte("orderId=" + orderID + "&totalAmount=" + totalAmount))
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *WebhookVerifier) Verify(orderID, totalAmount, sign string) bool {
	if sign == "" {
		return false
	}
	expected := v.Compute(orderID, totalAmount)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(sign)))
}
