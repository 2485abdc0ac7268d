package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
)

var testCustomer = model.CustomerInfo{
	Email:     "jane@example.com",
	FirstName: "Jane",
	LastName:  "Doe",
}

var testItems = []model.CartItem{
	{ProductID: 10, Quantity: 2, Price: 22.99, Name: "Mug"},
}

func enabledGateways() []model.PaymentMethod {
	return []model.PaymentMethod{
		{ID: "bacs", Title: "Direct bank transfer", Enabled: true},
		{ID: "cod", Title: "Cash on delivery", Enabled: true},
	}
}

func newWizard(commerce *fakeCommerce, repo *memRepo) *CheckoutWizard {
	return NewCheckoutWizard(
		NewAddressService(repo),
		NewPaymentDirectory(commerce),
		NewOrderService(commerce),
		zap.NewNop(),
	)
}

func seededRepo(t *testing.T, book model.AddressBook) *memRepo {
	t.Helper()
	data, err := json.Marshal(book)
	require.NoError(t, err)
	return &memRepo{data: data}
}

func fillDraft(w *CheckoutWizard) {
	draft := w.Draft()
	draft.Address1 = "123 Main St"
	draft.City = "Springfield"
	draft.State = "IL"
	draft.Postcode = "62704"
	w.UpdateDraft(draft)
}

func openToPayment(t *testing.T, w *CheckoutWizard) {
	t.Helper()
	w.Open(context.Background(), testCustomer, testItems, 45.98)
	fillDraft(w)
	require.NoError(t, w.SubmitAddress(context.Background(), false))
	require.Equal(t, StepPayment, w.Step())
}

func TestWizard_OpenWithEmptyStore(t *testing.T) {
	// Scenario: no saved addresses, form blank except name/email.
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, &memRepo{})
	w.Open(context.Background(), testCustomer, testItems, 45.98)

	assert.True(t, w.IsOpen())
	assert.Equal(t, StepAddress, w.Step())
	assert.Empty(t, w.SavedAddresses())
	assert.Empty(t, w.SelectedAddressID())

	draft := w.Draft()
	assert.Equal(t, "Jane", draft.FirstName)
	assert.Equal(t, "Doe", draft.LastName)
	assert.Equal(t, "jane@example.com", draft.Email)
	assert.Equal(t, "US", draft.Country)
	assert.Empty(t, draft.Address1)
}

func TestWizard_OpenSelectsDefaultAddress(t *testing.T) {
	repo := seededRepo(t, model.AddressBook{
		Addresses: []model.ShippingAddress{
			{ID: "a1", FirstName: "Jane", Address1: "1 First Ave", Postcode: "11111"},
			{ID: "a2", FirstName: "Jane", Address1: "2 Second Ave", Postcode: "22222", IsDefault: true},
		},
		DefaultAddressID: "a2",
	})
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, repo)
	w.Open(context.Background(), testCustomer, testItems, 45.98)

	assert.Equal(t, "a2", w.SelectedAddressID())
	assert.Equal(t, "2 Second Ave", w.Draft().Address1)
}

func TestWizard_OpenSelectsFirstWhenNoDefault(t *testing.T) {
	repo := seededRepo(t, model.AddressBook{
		Addresses: []model.ShippingAddress{
			{ID: "a1", Address1: "1 First Ave"},
			{ID: "a2", Address1: "2 Second Ave"},
		},
	})
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, repo)
	w.Open(context.Background(), testCustomer, testItems, 45.98)

	assert.Equal(t, "a1", w.SelectedAddressID())
}

func TestWizard_OpenPreselectsFirstMethod(t *testing.T) {
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, &memRepo{})
	w.Open(context.Background(), testCustomer, testItems, 45.98)

	assert.Equal(t, "bacs", w.SelectedMethod())
	assert.Empty(t, w.Error())
	assert.False(t, w.IsLoading())
}

func TestWizard_NoPaymentMethodsIsBlocking(t *testing.T) {
	// Scenario: the remote returns zero enabled gateways.
	w := newWizard(&fakeCommerce{}, &memRepo{})
	w.Open(context.Background(), testCustomer, testItems, 45.98)

	assert.Equal(t, "No payment methods available", w.Error())
	assert.Empty(t, w.SelectedMethod())

	fillDraft(w)
	require.NoError(t, w.SubmitAddress(context.Background(), false))
	assert.False(t, w.CanPay())

	_, err := w.Pay(context.Background())
	assert.ErrorIs(t, err, ErrNoMethodSelected)
}

func TestWizard_SubmitAddressValidation(t *testing.T) {
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, &memRepo{})
	w.Open(context.Background(), testCustomer, testItems, 45.98)

	draft := w.Draft()
	draft.Address1 = "  " // whitespace only
	w.UpdateDraft(draft)

	err := w.SubmitAddress(context.Background(), false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepAddress, w.Step())
	assert.NotEmpty(t, w.Error())
}

func TestWizard_SubmitAddressSavesNewAddress(t *testing.T) {
	repo := &memRepo{}
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, repo)
	w.Open(context.Background(), testCustomer, testItems, 45.98)
	fillDraft(w)

	require.NoError(t, w.SubmitAddress(context.Background(), true))
	assert.Equal(t, StepPayment, w.Step())
	require.Len(t, w.SavedAddresses(), 1)
	assert.Equal(t, "Address 1", w.SavedAddresses()[0].Label)

	// Submitting the same street + postcode again must not duplicate.
	w.Back()
	require.NoError(t, w.SubmitAddress(context.Background(), true))
	assert.Len(t, w.SavedAddresses(), 1)
}

func TestWizard_BackPreservesDraft(t *testing.T) {
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, &memRepo{})
	openToPayment(t, w)

	w.Back()
	assert.Equal(t, StepAddress, w.Step())
	assert.Equal(t, "123 Main St", w.Draft().Address1)
}

func TestWizard_SelectMethodOnlyOnPaymentStep(t *testing.T) {
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, &memRepo{})
	w.Open(context.Background(), testCustomer, testItems, 45.98)

	w.SelectMethod("cod")
	assert.Equal(t, "bacs", w.SelectedMethod(), "address step must ignore selection")

	fillDraft(w)
	require.NoError(t, w.SubmitAddress(context.Background(), false))
	w.SelectMethod("cod")
	assert.Equal(t, "cod", w.SelectedMethod())
}

func TestWizard_DeleteSelectedAddressFallsBack(t *testing.T) {
	repo := seededRepo(t, model.AddressBook{
		Addresses: []model.ShippingAddress{
			{ID: "a1", Address1: "1 First Ave", City: "Springfield", State: "IL", Postcode: "11111"},
			{ID: "a2", Address1: "2 Second Ave", City: "Springfield", State: "IL", Postcode: "22222"},
		},
		DefaultAddressID: "a1",
	})
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, repo)
	ctx := context.Background()
	w.Open(ctx, testCustomer, testItems, 45.98)
	require.Equal(t, "a1", w.SelectedAddressID())

	require.NoError(t, w.DeleteAddress(ctx, "a1"))
	assert.Equal(t, "a2", w.SelectedAddressID())
	assert.Equal(t, "2 Second Ave", w.Draft().Address1)

	// Deleting the last record resets to a blank prefilled draft.
	require.NoError(t, w.DeleteAddress(ctx, "a2"))
	assert.Empty(t, w.SelectedAddressID())
	assert.Equal(t, "Jane", w.Draft().FirstName)
	assert.Empty(t, w.Draft().Address1)
}

func TestWizard_SaveAddressWithLabel(t *testing.T) {
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, &memRepo{})
	w.Open(context.Background(), testCustomer, testItems, 45.98)
	fillDraft(w)

	require.NoError(t, w.SaveAddress(context.Background(), "Home"))
	require.Len(t, w.SavedAddresses(), 1)
	assert.Equal(t, "Home", w.SavedAddresses()[0].Label)
	assert.Equal(t, w.SavedAddresses()[0].ID, w.SelectedAddressID())
}

func TestWizard_PaySuccess(t *testing.T) {
	commerce := &fakeCommerce{
		gateways: enabledGateways(),
		orderResult: &model.OrderResult{
			ID: 7, Number: "1007", Status: "pending", Currency: "USD", Total: "45.98",
		},
	}
	w := newWizard(commerce, &memRepo{})

	var callbackResult *model.OrderResult
	w.OnSuccess(func(r *model.OrderResult) { callbackResult = r })
	closed := false
	w.OnClose(func() { closed = true })

	openToPayment(t, w)

	outcome, err := w.Pay(context.Background())
	require.NoError(t, err)
	require.NotNil(t, callbackResult)
	assert.Equal(t, "1007", callbackResult.Number)

	// bacs processing estimate appears in the confirmation text.
	assert.Contains(t, outcome.Summary, "Estimated Processing: 2-3 business days")
	assert.Contains(t, outcome.Summary, "Total: $45.98")

	assert.True(t, closed)
	assert.False(t, w.IsOpen())
	assert.False(t, w.IsProcessing())

	// Billing carried the customer email.
	assert.Equal(t, "jane@example.com", commerce.lastOrder.Billing.Email)
}

func TestWizard_PayUnmappedMethodUsesFallbackTiming(t *testing.T) {
	commerce := &fakeCommerce{
		gateways: []model.PaymentMethod{
			{ID: "new_gateway", Title: "Shiny Pay", Enabled: true},
		},
		orderResult: &model.OrderResult{ID: 8, Number: "1008"},
	}
	w := newWizard(commerce, &memRepo{})
	openToPayment(t, w)

	outcome, err := w.Pay(context.Background())
	require.NoError(t, err)
	assert.Contains(t, outcome.Summary, "2-3 business days")
	assert.Contains(t, outcome.Summary, "confirmed by the bank")
}

func TestWizard_PayRemoteErrorStaysOnPaymentStep(t *testing.T) {
	// Scenario: HTTP 500 with a service-supplied message.
	commerce := &fakeCommerce{
		gateways: enabledGateways(),
		orderErr: &client.RemoteError{Status: 500, Message: "Card declined"},
	}
	w := newWizard(commerce, &memRepo{})
	openToPayment(t, w)

	_, err := w.Pay(context.Background())
	require.Error(t, err)

	assert.Equal(t, StepPayment, w.Step())
	assert.Equal(t, "Card declined", w.Error())
	assert.False(t, w.IsProcessing())
	assert.True(t, w.IsOpen(), "session survives a failed submission")

	// A fresh user-initiated retry is allowed.
	commerce.orderErr = nil
	commerce.orderResult = &model.OrderResult{ID: 9, Number: "1009"}
	_, err = w.Pay(context.Background())
	assert.NoError(t, err)
}

func TestWizard_PayTransportFailureGenericMessage(t *testing.T) {
	commerce := &fakeCommerce{
		gateways: enabledGateways(),
		orderErr: client.ErrRemoteUnavailable,
	}
	w := newWizard(commerce, &memRepo{})
	openToPayment(t, w)

	_, err := w.Pay(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Payment failed. Please try again.", w.Error())
}

func TestWizard_CloseOutsideProcessing(t *testing.T) {
	w := newWizard(&fakeCommerce{gateways: enabledGateways()}, &memRepo{})
	closed := false
	w.OnClose(func() { closed = true })
	w.Open(context.Background(), testCustomer, testItems, 45.98)

	require.NoError(t, w.Close())
	assert.True(t, closed)
	assert.False(t, w.IsOpen())
}
