package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"
)

// envelope is the response wrapper every storefront-facing route uses.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func failure(c echo.Context, status int, err error) error {
	return c.JSON(status, envelope{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

type CheckoutHandler struct {
	directory      service.PaymentDirectory
	orderService   service.OrderService
	addressService service.AddressService
}

func NewCheckoutHandler(
	directory service.PaymentDirectory,
	orderService service.OrderService,
	addressService service.AddressService,
) *CheckoutHandler {
	return &CheckoutHandler{
		directory:      directory,
		orderService:   orderService,
		addressService: addressService,
	}
}

func (h *CheckoutHandler) GetPaymentMethods(c echo.Context) error {
	methods, err := h.directory.Refresh(c.Request().Context())
	if err != nil {
		return failure(c, http.StatusInternalServerError, err)
	}

	count := len(methods)
	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    methods,
		Count:   &count,
	})
}

type createOrderRequest struct {
	PaymentMethod string                `json:"payment_method"`
	Email         string                `json:"email"`
	Shipping      model.ShippingAddress `json:"shipping"`
	LineItems     []model.CartItem      `json:"line_items"`
}

func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.orderService.Submit(c.Request().Context(), service.Submission{
		MethodID:    req.PaymentMethod,
		MethodTitle: h.directory.MethodTitle(req.PaymentMethod),
		Shipping:    req.Shipping,
		Email:       req.Email,
		Items:       req.LineItems,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.Is(err, service.ErrNoMethodSelected) || errors.As(err, &verr) {
			return failure(c, http.StatusBadRequest, err)
		}
		return failure(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    result,
		Message: "Order created successfully",
	})
}

func (h *CheckoutHandler) ListAddresses(c echo.Context) error {
	book, err := h.addressService.Load(c.Request().Context())
	if err != nil {
		return failure(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    book,
	})
}

type saveAddressRequest struct {
	Address     model.ShippingAddress `json:"address"`
	MakeDefault bool                  `json:"make_default"`
}

func (h *CheckoutHandler) SaveAddress(c echo.Context) error {
	var req saveAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	id, err := h.addressService.Upsert(c.Request().Context(), req.Address, req.MakeDefault)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return failure(c, http.StatusBadRequest, err)
		}
		return failure(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    map[string]string{"id": id},
	})
}

func (h *CheckoutHandler) DeleteAddress(c echo.Context) error {
	if err := h.addressService.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return failure(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true})
}

func (h *CheckoutHandler) SetDefaultAddress(c echo.Context) error {
	err := h.addressService.SetDefault(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return failure(c, http.StatusNotFound, err)
		}
		return failure(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true})
}
