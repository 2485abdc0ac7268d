package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
)

// Submission is everything one order attempt needs. Line items go to the
// commerce service verbatim; totals are informational display values and
// are never recomputed or sent for validation.
type Submission struct {
	MethodID    string
	MethodTitle string
	Shipping    model.ShippingAddress
	Email       string
	Items       []model.CartItem
}

// OrderService builds and sends the order-creation request and normalizes
// the outcome.
type OrderService interface {
	Submit(ctx context.Context, sub Submission) (*model.OrderResult, error)
}

type orderServiceImpl struct {
	commerceClient client.CommerceClient
}

func NewOrderService(commerceClient client.CommerceClient) OrderService {
	return &orderServiceImpl{commerceClient: commerceClient}
}

func (s *orderServiceImpl) Submit(ctx context.Context, sub Submission) (*model.OrderResult, error) {
	if sub.MethodID == "" {
		return nil, ErrNoMethodSelected
	}

	title := sub.MethodTitle
	if title == "" {
		title = sub.MethodID
	}

	billing := sub.Shipping
	billing.Email = sub.Email

	req := &model.OrderRequest{
		PaymentMethod:      sub.MethodID,
		PaymentMethodTitle: title,
		SetPaid:            false,
		Status:             "pending",
		Billing:            billing,
		Shipping:           sub.Shipping,
		LineItems:          sub.Items,
		ShippingLines: []model.ShippingLine{
			{
				MethodID:    "flat_rate",
				MethodTitle: "Standard Shipping",
				Total:       "0.00",
			},
		},
	}

	result, err := s.commerceClient.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return result, nil
}

// SuccessSummary is the human confirmation text shown after an order goes
// through: number, total, method and the processing estimate.
func SuccessSummary(result *model.OrderResult, total float64, methodTitle string, timing model.PaymentTiming) string {
	amount := decimal.NewFromFloat(total).StringFixed(2)
	return fmt.Sprintf(
		"Payment Successful!\n\nOrder #%s\nTotal: $%s\nPayment Method: %s\nEstimated Processing: %s\n\n%s",
		result.Number, amount, methodTitle, timing.EstimatedProcessing, timing.Description,
	)
}
