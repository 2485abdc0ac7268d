package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
)

func TestOrderService_BuildsRequest(t *testing.T) {
	commerce := &fakeCommerce{orderResult: &model.OrderResult{ID: 42, Number: "42"}}
	svc := NewOrderService(commerce)

	shipping := validAddress()
	items := []model.CartItem{
		{ProductID: 10, Quantity: 2, Price: 19.99, Name: "Mug"},
		{ProductID: 11, Quantity: 1, VariationID: 3, Price: 6.00},
	}

	result, err := svc.Submit(context.Background(), Submission{
		MethodID:    "bacs",
		MethodTitle: "Direct bank transfer",
		Shipping:    shipping,
		Email:       "buyer@example.com",
		Items:       items,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result.ID)

	req := commerce.lastOrder
	require.NotNil(t, req)
	assert.Equal(t, "bacs", req.PaymentMethod)
	assert.Equal(t, "Direct bank transfer", req.PaymentMethodTitle)
	assert.False(t, req.SetPaid)
	assert.Equal(t, "pending", req.Status)

	// Billing is the shipping address with the customer email attached.
	assert.Equal(t, shipping.Address1, req.Billing.Address1)
	assert.Equal(t, "buyer@example.com", req.Billing.Email)
	assert.Equal(t, shipping, req.Shipping)

	// Line items pass through verbatim, no recomputation.
	assert.Equal(t, items, req.LineItems)

	require.Len(t, req.ShippingLines, 1)
	assert.Equal(t, "flat_rate", req.ShippingLines[0].MethodID)
	assert.Equal(t, "0.00", req.ShippingLines[0].Total)
}

func TestOrderService_TitleFallsBackToMethodID(t *testing.T) {
	commerce := &fakeCommerce{orderResult: &model.OrderResult{ID: 1}}
	svc := NewOrderService(commerce)

	_, err := svc.Submit(context.Background(), Submission{
		MethodID: "bacs",
		Shipping: validAddress(),
		Email:    "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "bacs", commerce.lastOrder.PaymentMethodTitle)
}

func TestOrderService_RequiresSelectedMethod(t *testing.T) {
	commerce := &fakeCommerce{orderResult: &model.OrderResult{ID: 1}}
	svc := NewOrderService(commerce)

	_, err := svc.Submit(context.Background(), Submission{
		Shipping: validAddress(),
		Email:    "buyer@example.com",
	})
	assert.ErrorIs(t, err, ErrNoMethodSelected)
	assert.Nil(t, commerce.lastOrder, "no network call without a method")
}

func TestOrderService_WrapsRemoteError(t *testing.T) {
	commerce := &fakeCommerce{
		orderErr: &client.RemoteError{Status: 500, Message: "Card declined"},
	}
	svc := NewOrderService(commerce)

	_, err := svc.Submit(context.Background(), Submission{
		MethodID: "stripe",
		Shipping: validAddress(),
		Email:    "buyer@example.com",
	})
	var remote *client.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Card declined", remote.Message)
}

func TestSuccessSummary(t *testing.T) {
	summary := SuccessSummary(
		&model.OrderResult{Number: "1007"},
		45.98,
		"Direct bank transfer",
		model.PaymentTiming{
			Method:              "Bank Transfer",
			EstimatedProcessing: "2-3 business days",
			Description:         "Orders are processed once payment is confirmed by the bank",
		},
	)

	assert.Contains(t, summary, "Order #1007")
	assert.Contains(t, summary, "Total: $45.98")
	assert.Contains(t, summary, "Estimated Processing: 2-3 business days")
}
