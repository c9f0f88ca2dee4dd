// Package telebirr talks to the Telebirr Fabric payment gateway: it canonicalizes
// and signs outbound requests, manages the token exchange, submits pre-orders and
// verifies payment notifications.
package telebirr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	FieldSign       = "sign"
	FieldSignType   = "sign_type"
	FieldBizContent = "biz_content"

	SignTypeRSA = "SHA256WithRSA"
	APIVersion  = "1.0"

	MethodPreOrder  = "payment.preorder"
	MethodAuthToken = "payment.authtoken"
)

// RequestObject is one outbound gateway call. biz_content, when present, is a
// nested map of business fields.
type RequestObject map[string]any

// excludedFields never take part in the signature, at either level.
var excludedFields = map[string]struct{}{
	FieldSign:       {},
	FieldSignType:   {},
	"header":        {},
	"refund_info":   {},
	"openType":      {},
	"raw_request":   {},
	FieldBizContent: {},
}

func isExcluded(key string) bool {
	_, ok := excludedFields[key]
	return ok
}

// SignableFields flattens the top-level and biz_content keys into one map.
// On a name collision the biz_content value wins over the top-level value.
// Flattening stops at biz_content: a deeper object such as mandate_data is one
// field whose value is its compact JSON with keys sorted, e.g.
// mandate_data={"executeTime":"2024-01-01","mandateTemplateId":"T-1","mctContractNo":"C-1"}.
func SignableFields(obj RequestObject) map[string]string {
	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		if isExcluded(k) {
			continue
		}
		fields[k] = stringify(v)
	}

	for k, v := range bizContent(obj) {
		if isExcluded(k) {
			continue
		}
		fields[k] = stringify(v)
	}

	return fields
}

// Canonicalize renders the signable fields as key=value pairs sorted by byte
// order and joined with '&'. The gateway recomputes the same string server-side.
func Canonicalize(obj RequestObject) string {
	fields := SignableFields(obj)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return b.String()
}

func bizContent(obj RequestObject) map[string]any {
	switch bc := obj[FieldBizContent].(type) {
	case map[string]any:
		return bc
	case RequestObject:
		return bc
	case map[string]string:
		out := make(map[string]any, len(bc))
		for k, v := range bc {
			out[k] = v
		}
		return out
	default:
		return nil
	}
}

// stringify is the single value-to-text rule used for signing.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return strconv.FormatInt(x.Unix(), 10)
	case fmt.Stringer:
		return x.String()
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}
