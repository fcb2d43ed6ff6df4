package checkout

import "strings"

// gatewaySuccessCode is the redirect-level result code for an approved payment.
const gatewaySuccessCode = "00"

// redirectPaidStatus is the redirect-level status for an approved payment.
const redirectPaidStatus = "PAID"

// successTokens lists, in normalized form, every payment status the gateway and its
// SDK variants have been seen to return for a completed payment: PAID, 00, SUCCESS,
// COMPLETED, successful, paid, completed.
var successTokens = map[string]struct{}{
	"PAID":       {},
	"00":         {},
	"SUCCESS":    {},
	"SUCCESSFUL": {},
	"COMPLETED":  {},
}

func normalizeToken(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// IsSuccessToken reports whether a payment status string means the payment went through.
func IsSuccessToken(status string) bool {
	_, ok := successTokens[normalizeToken(status)]
	return ok
}
