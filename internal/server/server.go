package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storefront-checkout/internal/handler"
	"storefront-checkout/internal/service"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
	wizardHandler   *handler.WizardHandler
}

func NewServer(
	directory service.PaymentDirectory,
	orderService service.OrderService,
	addressService service.AddressService,
	wizard *service.CheckoutWizard,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(directory, orderService, addressService),
		wizardHandler:   handler.NewWizardHandler(wizard),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/payment-methods", s.checkoutHandler.GetPaymentMethods)
	api.POST("/orders", s.checkoutHandler.CreateOrder)

	// -------- saved addresses --------
	addresses := api.Group("/addresses")
	addresses.GET("", s.checkoutHandler.ListAddresses)
	addresses.POST("", s.checkoutHandler.SaveAddress)
	addresses.DELETE("/:id", s.checkoutHandler.DeleteAddress)
	addresses.PUT("/:id/default", s.checkoutHandler.SetDefaultAddress)

	// -------- checkout session --------
	checkout := api.Group("/checkout")
	checkout.POST("/open", s.wizardHandler.Open)
	checkout.GET("", s.wizardHandler.State)
	checkout.POST("/address", s.wizardHandler.SubmitAddress)
	checkout.POST("/address/save", s.wizardHandler.SaveAddress)
	checkout.POST("/address/:id/select", s.wizardHandler.SelectAddress)
	checkout.DELETE("/address/:id", s.wizardHandler.DeleteAddress)
	checkout.PUT("/address/:id/default", s.wizardHandler.SetDefaultAddress)
	checkout.POST("/back", s.wizardHandler.Back)
	checkout.POST("/method", s.wizardHandler.SelectMethod)
	checkout.POST("/pay", s.wizardHandler.Pay)
	checkout.POST("/close", s.wizardHandler.Close)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
