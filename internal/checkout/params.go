package checkout

import (
	"net/url"
	"strconv"
	"strings"
)

// RedirectParams are the query parameters the payment gateway appends to the return URL.
type RedirectParams struct {
	Code      string
	Status    string
	OrderCode string
	Cancel    bool
	OrderID   string
	ID        string
}

// ParseRedirect reads the gateway's return query. Every field is optional.
func ParseRedirect(values url.Values) RedirectParams {
	get := func(key string) string {
		return strings.TrimSpace(values.Get(key))
	}
	return RedirectParams{
		Code:      get("code"),
		Status:    get("status"),
		OrderCode: get("orderCode"),
		Cancel:    parseCancel(get("cancel")),
		OrderID:   get("orderId"),
		ID:        get("id"),
	}
}

func parseCancel(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1":
		return true
	}
	return false
}

// orderCodeValue parses the gateway order code; ok is false when it is not a positive integer.
func (p RedirectParams) orderCodeValue() (int64, bool) {
	code, err := strconv.ParseInt(p.OrderCode, 10, 64)
	if err != nil || code <= 0 {
		return 0, false
	}
	return code, true
}
