package service

import (
	"context"
	"fmt"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
)

// paymentTimings maps a gateway id to its processing estimate. Unmapped ids
// fall back to the bank-transfer entry.
var paymentTimings = map[string]model.PaymentTiming{
	"bacs": {
		Method:              "Bank Transfer",
		EstimatedProcessing: "2-3 business days",
		Description:         "Orders are processed once payment is confirmed by the bank",
	},
	"cheque": {
		Method:              "Check Payment",
		EstimatedProcessing: "5-7 business days",
		Description:         "Order will be processed after we receive and clear your check",
	},
	"cod": {
		Method:              "Cash on Delivery",
		EstimatedProcessing: "1-2 business days",
		Description:         "Pay with cash when your order is delivered",
	},
	"paypal": {
		Method:              "PayPal",
		EstimatedProcessing: "Instant",
		Description:         "Your order will be processed immediately after payment confirmation",
	},
	"stripe": {
		Method:              "Credit Card",
		EstimatedProcessing: "Instant",
		Description:         "Your order will be processed immediately after payment confirmation",
	},
}

const fallbackTimingID = "bacs"

// PaymentDirectory is a read-through session cache of the gateways the
// commerce service has enabled. Refresh happens once per wizard open; an
// empty result is a valid answer, not an error.
type PaymentDirectory interface {
	Refresh(ctx context.Context) ([]model.PaymentMethod, error)
	Methods() []model.PaymentMethod
	// MethodTitle resolves a gateway id to its display title, falling back
	// to the raw id when the directory raced out of sync.
	MethodTitle(id string) string
	// TimingFor never fails; unmapped ids get the fallback entry.
	TimingFor(id string) model.PaymentTiming
}

type paymentDirectoryImpl struct {
	commerceClient client.CommerceClient
	cached         []model.PaymentMethod
}

func NewPaymentDirectory(commerceClient client.CommerceClient) PaymentDirectory {
	return &paymentDirectoryImpl{
		commerceClient: commerceClient,
	}
}

func (d *paymentDirectoryImpl) Refresh(ctx context.Context) ([]model.PaymentMethod, error) {
	gateways, err := d.commerceClient.GetPaymentGateways(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch payment gateways: %w", err)
	}

	enabled := make([]model.PaymentMethod, 0, len(gateways))
	for _, g := range gateways {
		if g.Enabled {
			enabled = append(enabled, g)
		}
	}

	d.cached = enabled
	return enabled, nil
}

func (d *paymentDirectoryImpl) Methods() []model.PaymentMethod {
	return d.cached
}

func (d *paymentDirectoryImpl) MethodTitle(id string) string {
	for _, m := range d.cached {
		if m.ID == id {
			return m.Title
		}
	}
	return id
}

func (d *paymentDirectoryImpl) TimingFor(id string) model.PaymentTiming {
	if t, ok := paymentTimings[id]; ok {
		return t
	}
	return paymentTimings[fallbackTimingID]
}
