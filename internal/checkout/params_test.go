package checkout

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulseras/storefront-backend/pkg/enums"
)

func TestParseRedirect(t *testing.T) {
	values, err := url.ParseQuery("code=00&status=PAID&orderCode=123&cancel=false&orderId=order-456&id=abc")
	assert.NoError(t, err)

	params := ParseRedirect(values)
	assert.Equal(t, RedirectParams{
		Code: "00", Status: "PAID", OrderCode: "123", OrderID: "order-456", ID: "abc",
	}, params)
	code, ok := params.orderCodeValue()
	assert.True(t, ok)
	assert.Equal(t, int64(123), code)
}

func TestParseCancel(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "TRUE": true, "1": true, "false": false, "0": false, "": false, "yes": false} {
		assert.Equal(t, want, parseCancel(raw), raw)
	}
}

func TestIsSuccessToken(t *testing.T) {
	for _, token := range []string{"PAID", "00", "SUCCESS", "COMPLETED", "successful", "paid", "completed", " Paid "} {
		assert.True(t, IsSuccessToken(token), token)
	}
	for _, token := range []string{"", "PENDING", "CANCELLED", "01", "FAILED"} {
		assert.False(t, IsSuccessToken(token), token)
	}
}

func TestDisplayStatePrecedence(t *testing.T) {
	cases := []struct {
		cancel bool
		code   string
		status string
		update enums.OrderUpdateStatus
		want   enums.CheckoutState
	}{
		{true, "00", "PAID", enums.OrderUpdateSuccess, enums.CheckoutStateCancelled},
		{false, "", "", enums.OrderUpdateSuccess, enums.CheckoutStateSuccess},
		{false, "00", "PAID", enums.OrderUpdateError, enums.CheckoutStateSuccess},
		{false, "00", "PENDING", enums.OrderUpdateError, enums.CheckoutStatePending},
		{false, "", "PAID", enums.OrderUpdatePending, enums.CheckoutStatePending},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DisplayState(tc.cancel, tc.code, tc.status, tc.update))
	}
}

func TestResultCard(t *testing.T) {
	for _, state := range []enums.CheckoutState{enums.CheckoutStateCancelled, enums.CheckoutStateSuccess, enums.CheckoutStatePending} {
		card := Result{Display: state}.Card()
		assert.Equal(t, state, card.State)
		assert.NotEmpty(t, card.Title)
		assert.NotEmpty(t, card.Message)
		assert.NotEmpty(t, card.Icon)
	}
	assert.Equal(t, enums.CheckoutStatePending, Result{}.Card().State)
}
