package telebirr

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const nonceLength = 32

// NewNonce returns 32 random uppercase alphanumeric characters.
func NewNonce() (string, error) {
	buf := make([]byte, nonceLength)
	limit := big.NewInt(int64(len(nonceAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate nonce: %w", err)
		}
		buf[i] = nonceAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// NewMerchOrderID derives an order id from the millisecond clock plus six random
// digits, so two checkouts in the same millisecond do not collide in practice.
// Uniqueness is still enforced by the payment_attempts table.
func NewMerchOrderID(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate merch order id: %w", err)
	}
	return fmt.Sprintf("%d%06d", now.UnixMilli(), n.Int64()), nil
}

// Timestamp renders Unix seconds, the gateway's timestamp format.
func Timestamp(now time.Time) string {
	return strconv.FormatInt(now.Unix(), 10)
}
