package handler

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"
)

// WizardHandler adapts the checkout wizard to HTTP for the storefront
// shell. The wizard itself is cooperative and single-threaded; the mutex
// serializes shell actions so they arrive one at a time, which is the
// shell's job (one browser tab, one session).
type WizardHandler struct {
	mu     sync.Mutex
	wizard *service.CheckoutWizard
}

func NewWizardHandler(wizard *service.CheckoutWizard) *WizardHandler {
	return &WizardHandler{wizard: wizard}
}

// wizardState is the full view the shell renders from.
type wizardState struct {
	Open              bool                    `json:"open"`
	Step              service.Step            `json:"step"`
	Error             string                  `json:"error,omitempty"`
	IsLoading         bool                    `json:"is_loading"`
	IsProcessing      bool                    `json:"is_processing"`
	SelectedMethod    string                  `json:"selected_method,omitempty"`
	SelectedAddressID string                  `json:"selected_address_id,omitempty"`
	Draft             model.ShippingAddress   `json:"draft"`
	SavedAddresses    []model.ShippingAddress `json:"saved_addresses"`
	Methods           []model.PaymentMethod   `json:"methods"`
	CanPay            bool                    `json:"can_pay"`
}

func (h *WizardHandler) state() wizardState {
	w := h.wizard
	return wizardState{
		Open:              w.IsOpen(),
		Step:              w.Step(),
		Error:             w.Error(),
		IsLoading:         w.IsLoading(),
		IsProcessing:      w.IsProcessing(),
		SelectedMethod:    w.SelectedMethod(),
		SelectedAddressID: w.SelectedAddressID(),
		Draft:             w.Draft(),
		SavedAddresses:    w.SavedAddresses(),
		Methods:           w.Methods(),
		CanPay:            w.CanPay(),
	}
}

func (h *WizardHandler) respondState(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: h.state()})
}

type openRequest struct {
	Customer    model.CustomerInfo `json:"customer"`
	CartItems   []model.CartItem   `json:"cart_items"`
	TotalAmount float64            `json:"total_amount"`
}

func (h *WizardHandler) Open(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req openRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	h.wizard.Open(c.Request().Context(), req.Customer, req.CartItems, req.TotalAmount)
	return h.respondState(c)
}

func (h *WizardHandler) State(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.respondState(c)
}

type submitAddressRequest struct {
	Address model.ShippingAddress `json:"address"`
	Save    bool                  `json:"save"`
}

func (h *WizardHandler) SubmitAddress(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req submitAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	h.wizard.UpdateDraft(req.Address)
	// Validation failures land in the wizard's error slot; the shell
	// re-renders the same step from the returned state.
	_ = h.wizard.SubmitAddress(c.Request().Context(), req.Save)
	return h.respondState(c)
}

type saveAddressDraftRequest struct {
	Address model.ShippingAddress `json:"address"`
	Label   string                `json:"label"`
}

func (h *WizardHandler) SaveAddress(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req saveAddressDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	h.wizard.UpdateDraft(req.Address)
	_ = h.wizard.SaveAddress(c.Request().Context(), req.Label)
	return h.respondState(c)
}

func (h *WizardHandler) SelectAddress(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.wizard.SelectAddress(c.Param("id"))
	return h.respondState(c)
}

func (h *WizardHandler) DeleteAddress(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_ = h.wizard.DeleteAddress(c.Request().Context(), c.Param("id"))
	return h.respondState(c)
}

func (h *WizardHandler) SetDefaultAddress(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_ = h.wizard.SetDefaultAddress(c.Request().Context(), c.Param("id"))
	return h.respondState(c)
}

func (h *WizardHandler) Back(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.wizard.Back()
	return h.respondState(c)
}

type selectMethodRequest struct {
	ID string `json:"id"`
}

func (h *WizardHandler) SelectMethod(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req selectMethodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	h.wizard.SelectMethod(req.ID)
	return h.respondState(c)
}

func (h *WizardHandler) Pay(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	outcome, err := h.wizard.Pay(c.Request().Context())
	if err != nil {
		// The error text is already in the wizard state; the shell keeps
		// the user on the payment step.
		return c.JSON(http.StatusOK, envelope{Success: false, Error: h.wizard.Error(), Data: h.state()})
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data: map[string]any{
			"order":   outcome.Result,
			"summary": outcome.Summary,
			"state":   h.state(),
		},
	})
}

func (h *WizardHandler) Close(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.wizard.Close(); err != nil {
		return failure(c, http.StatusConflict, err)
	}
	return h.respondState(c)
}
