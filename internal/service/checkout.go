package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
)

// Step is the wizard phase. There is no terminal step: a successful
// submission or an explicit close ends the session.
type Step string

const (
	StepAddress Step = "address"
	StepPayment Step = "payment"
)

const (
	msgNoPaymentMethods = "No payment methods available"
	msgPaymentFailed    = "Payment failed. Please try again."
	msgSelectMethod     = "Please select a payment method"
)

// PaymentOutcome is what a completed submission hands back to the shell.
type PaymentOutcome struct {
	Result  *model.OrderResult
	Summary string
}

// CheckoutWizard drives the two-phase address/payment flow. It is
// cooperative and single-threaded: every method runs to completion on the
// caller's goroutine, and the isLoading/isProcessing flags are advisory
// locks for the shell's controls, not mutexes.
type CheckoutWizard struct {
	addresses AddressService
	directory PaymentDirectory
	orders    OrderService
	log       *zap.Logger

	onSuccess func(*model.OrderResult)
	onClose   func()

	open        bool
	step        Step
	customer    model.CustomerInfo
	cartItems   []model.CartItem
	totalAmount float64

	draft             model.ShippingAddress
	savedAddresses    []model.ShippingAddress
	selectedAddressID string

	selectedMethod string
	isProcessing   bool
	isLoading      bool
	errMsg         string
}

func NewCheckoutWizard(
	addresses AddressService,
	directory PaymentDirectory,
	orders OrderService,
	log *zap.Logger,
) *CheckoutWizard {
	return &CheckoutWizard{
		addresses: addresses,
		directory: directory,
		orders:    orders,
		log:       log,
		step:      StepAddress,
	}
}

// OnSuccess registers the shell callback invoked after an order is created,
// before the wizard closes.
func (w *CheckoutWizard) OnSuccess(fn func(*model.OrderResult)) { w.onSuccess = fn }

// OnClose registers the shell callback invoked when the session ends.
func (w *CheckoutWizard) OnClose(fn func()) { w.onClose = fn }

// Open starts a checkout session: loads the saved addresses, refreshes the
// payment-method directory and resets the wizard to the address step.
func (w *CheckoutWizard) Open(ctx context.Context, customer model.CustomerInfo, items []model.CartItem, total float64) {
	w.open = true
	w.step = StepAddress
	w.customer = customer
	w.cartItems = items
	w.totalAmount = total
	w.errMsg = ""
	w.selectedMethod = ""
	w.selectedAddressID = ""
	w.isProcessing = false

	w.loadSavedAddresses(ctx)
	w.fetchPaymentMethods(ctx)
}

func (w *CheckoutWizard) loadSavedAddresses(ctx context.Context) {
	book, err := w.addresses.Load(ctx)
	if err != nil {
		// Saved addresses are a convenience; a storage failure must not
		// block checkout.
		w.log.Warn("load saved addresses", zap.Error(err))
		book = &model.AddressBook{}
	}

	w.savedAddresses = book.Addresses

	switch {
	case book.DefaultAddressID != "" && book.Find(book.DefaultAddressID) != nil:
		w.selectAddress(book.DefaultAddressID)
	case len(book.Addresses) > 0:
		w.selectAddress(book.Addresses[0].ID)
	default:
		w.resetDraft()
	}
}

func (w *CheckoutWizard) fetchPaymentMethods(ctx context.Context) {
	w.isLoading = true
	defer func() { w.isLoading = false }()

	methods, err := w.directory.Refresh(ctx)
	if err != nil {
		w.log.Error("fetch payment methods", zap.Error(err))
		w.errMsg = remoteMessage(err, "Failed to load payment methods")
		return
	}

	if len(methods) == 0 {
		// Zero enabled gateways is a blocking condition with no retry
		// path; the pay control stays disabled.
		w.errMsg = msgNoPaymentMethods
		return
	}

	w.selectedMethod = methods[0].ID
}

// SubmitAddress validates the working address and advances to the payment
// step. With save set, a not-yet-saved address (matched on street line and
// postcode) is persisted first.
func (w *CheckoutWizard) SubmitAddress(ctx context.Context, save bool) error {
	if !w.open || w.step != StepAddress {
		return fmt.Errorf("submit address: wizard not on address step")
	}

	if err := w.validateDraft(); err != nil {
		w.errMsg = err.Error()
		return err
	}

	if save && !w.draftAlreadySaved() {
		addr := w.draft
		addr.ID = ""
		addr.Label = fmt.Sprintf("Address %d", len(w.savedAddresses)+1)

		id, err := w.addresses.Upsert(ctx, addr, false)
		if err != nil {
			w.log.Warn("save address on submit", zap.Error(err))
		} else {
			w.reloadBook(ctx)
			w.selectedAddressID = id
			w.draft.ID = id
		}
	}

	w.step = StepPayment
	w.errMsg = ""
	return nil
}

// SaveAddress persists the working address explicitly, with an optional
// human label, and selects the new entry.
func (w *CheckoutWizard) SaveAddress(ctx context.Context, label string) error {
	if err := w.validateAddressFields(); err != nil {
		w.errMsg = err.Error()
		return err
	}

	addr := w.draft
	addr.ID = ""
	addr.Label = label
	if addr.Label == "" {
		addr.Label = truncateLabel(addr.Address1)
	}

	id, err := w.addresses.Upsert(ctx, addr, false)
	if err != nil {
		w.errMsg = err.Error()
		return err
	}

	w.reloadBook(ctx)
	w.selectedAddressID = id
	w.draft.ID = id
	w.errMsg = ""
	return nil
}

// SelectAddress makes a saved record the working address, independent of
// its default status.
func (w *CheckoutWizard) SelectAddress(id string) {
	w.selectAddress(id)
}

func (w *CheckoutWizard) selectAddress(id string) {
	for _, addr := range w.savedAddresses {
		if addr.ID == id {
			w.selectedAddressID = id
			w.draft = addr
			return
		}
	}
}

// DeleteAddress removes a saved record. Deleting the currently selected one
// falls back to the first remaining address, or to a blank draft pre-filled
// with the customer's name and email.
func (w *CheckoutWizard) DeleteAddress(ctx context.Context, id string) error {
	if err := w.addresses.Remove(ctx, id); err != nil {
		w.errMsg = err.Error()
		return err
	}

	w.reloadBook(ctx)

	if w.selectedAddressID == id {
		if len(w.savedAddresses) > 0 {
			w.selectAddress(w.savedAddresses[0].ID)
		} else {
			w.selectedAddressID = ""
			w.resetDraft()
		}
	}
	return nil
}

// SetDefaultAddress is a pure store mutation; wizard state is untouched.
func (w *CheckoutWizard) SetDefaultAddress(ctx context.Context, id string) error {
	if err := w.addresses.SetDefault(ctx, id); err != nil {
		w.errMsg = err.Error()
		return err
	}
	w.reloadBook(ctx)
	return nil
}

// Back returns to the address step without validation; the working address
// stays in memory as the draft.
func (w *CheckoutWizard) Back() {
	if w.step == StepPayment {
		w.step = StepAddress
	}
}

// SelectMethod records the chosen payment method. Pure state update, no
// network call; only meaningful on the payment step.
func (w *CheckoutWizard) SelectMethod(id string) {
	if w.step != StepPayment {
		return
	}
	w.selectedMethod = id
}

// Pay submits the order. All remote errors land in the error slot and the
// wizard stays on the payment step so the user can retry; success fires the
// shell callback and closes the session.
func (w *CheckoutWizard) Pay(ctx context.Context) (*PaymentOutcome, error) {
	if !w.open || w.step != StepPayment {
		return nil, fmt.Errorf("pay: wizard not on payment step")
	}
	if w.isProcessing || w.isLoading {
		return nil, fmt.Errorf("pay: request already in flight")
	}
	if w.selectedMethod == "" {
		w.errMsg = msgSelectMethod
		return nil, ErrNoMethodSelected
	}

	w.isProcessing = true
	defer func() { w.isProcessing = false }()
	w.errMsg = ""

	result, err := w.orders.Submit(ctx, Submission{
		MethodID:    w.selectedMethod,
		MethodTitle: w.directory.MethodTitle(w.selectedMethod),
		Shipping:    w.draft,
		Email:       w.customer.Email,
		Items:       w.cartItems,
	})
	if err != nil {
		w.log.Error("order submission", zap.Error(err))
		w.errMsg = remoteMessage(err, msgPaymentFailed)
		return nil, err
	}

	if w.onSuccess != nil {
		w.onSuccess(result)
	}

	timing := w.directory.TimingFor(w.selectedMethod)
	outcome := &PaymentOutcome{
		Result:  result,
		Summary: SuccessSummary(result, w.totalAmount, w.directory.MethodTitle(w.selectedMethod), timing),
	}

	w.close()
	return outcome, nil
}

// Close ends the session. Refused while a submission is outstanding: a
// running order request cannot be abandoned.
func (w *CheckoutWizard) Close() error {
	if w.isProcessing {
		return fmt.Errorf("close: payment is processing")
	}
	w.close()
	return nil
}

func (w *CheckoutWizard) close() {
	w.open = false
	if w.onClose != nil {
		w.onClose()
	}
}

func (w *CheckoutWizard) reloadBook(ctx context.Context) {
	book, err := w.addresses.Load(ctx)
	if err != nil {
		w.log.Warn("reload saved addresses", zap.Error(err))
		return
	}
	w.savedAddresses = book.Addresses
}

func (w *CheckoutWizard) resetDraft() {
	w.draft = model.ShippingAddress{
		FirstName: w.customer.FirstName,
		LastName:  w.customer.LastName,
		Country:   "US",
		Email:     w.customer.Email,
	}
}

// UpdateDraft applies edits from the address form.
func (w *CheckoutWizard) UpdateDraft(addr model.ShippingAddress) {
	w.draft = addr
}

func (w *CheckoutWizard) validateDraft() error {
	if strings.TrimSpace(w.draft.FirstName) == "" ||
		strings.TrimSpace(w.draft.LastName) == "" ||
		strings.TrimSpace(w.draft.Email) == "" {
		return validationErr("Please fill in your name and email")
	}
	return w.validateAddressFields()
}

func (w *CheckoutWizard) validateAddressFields() error {
	if strings.TrimSpace(w.draft.Address1) == "" ||
		strings.TrimSpace(w.draft.City) == "" ||
		strings.TrimSpace(w.draft.State) == "" ||
		strings.TrimSpace(w.draft.Postcode) == "" {
		return validationErr("Please fill in all required address fields")
	}
	return nil
}

func (w *CheckoutWizard) draftAlreadySaved() bool {
	for _, addr := range w.savedAddresses {
		if addr.Address1 == w.draft.Address1 && addr.Postcode == w.draft.Postcode {
			return true
		}
	}
	return false
}

// Accessors for the shell.

func (w *CheckoutWizard) IsOpen() bool              { return w.open }
func (w *CheckoutWizard) Step() Step                { return w.step }
func (w *CheckoutWizard) Error() string             { return w.errMsg }
func (w *CheckoutWizard) IsProcessing() bool        { return w.isProcessing }
func (w *CheckoutWizard) IsLoading() bool           { return w.isLoading }
func (w *CheckoutWizard) SelectedMethod() string    { return w.selectedMethod }
func (w *CheckoutWizard) SelectedAddressID() string { return w.selectedAddressID }
func (w *CheckoutWizard) Draft() model.ShippingAddress { return w.draft }

func (w *CheckoutWizard) SavedAddresses() []model.ShippingAddress { return w.savedAddresses }
func (w *CheckoutWizard) Methods() []model.PaymentMethod          { return w.directory.Methods() }

// CanPay reports whether the shell's pay control should be enabled.
func (w *CheckoutWizard) CanPay() bool {
	return w.open && w.step == StepPayment && w.selectedMethod != "" &&
		!w.isProcessing && !w.isLoading
}

// remoteMessage picks the user-facing text for a remote failure: the
// service's own message when it sent one, a generic fallback otherwise.
func remoteMessage(err error, fallback string) string {
	var remote *client.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fallback
}

func truncateLabel(address1 string) string {
	if len(address1) > 15 {
		return address1[:15] + "..."
	}
	return address1
}
