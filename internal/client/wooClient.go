package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-checkout/internal/config"
	"storefront-checkout/internal/model"
)

// CommerceClient is the sole network boundary to the remote commerce
// service. One instance is constructed at process start and shared.
type CommerceClient interface {
	GetPaymentGateways(ctx context.Context) ([]model.PaymentMethod, error)
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResult, error)
}

type wooClientImpl struct {
	httpClient     *http.Client
	storeURL       string
	consumerKey    string
	consumerSecret string
}

// NewWooClient validates the store credentials eagerly; a missing value is
// a startup error, not something to discover on the first checkout.
func NewWooClient(cfg *config.WooCommerce) (CommerceClient, error) {
	if cfg.StoreURL == "" || cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("missing WooCommerce store URL or API credentials")
	}

	return &wooClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		storeURL:       strings.TrimRight(cfg.StoreURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
	}, nil
}

// endpoint builds a wc/v3 URL with query-string authentication.
func (c *wooClientImpl) endpoint(path string) string {
	q := url.Values{}
	q.Set("consumer_key", c.consumerKey)
	q.Set("consumer_secret", c.consumerSecret)
	return fmt.Sprintf("%s/wp-json/wc/v3/%s?%s", c.storeURL, path, q.Encode())
}

func (c *wooClientImpl) GetPaymentGateways(ctx context.Context) ([]model.PaymentMethod, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("payment_gateways"), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, remoteError(resp)
	}

	var gateways []model.PaymentMethod
	if err := json.NewDecoder(resp.Body).Decode(&gateways); err != nil {
		return nil, fmt.Errorf("decode payment gateways: %w", err)
	}

	// Disabled gateways never leave this package, whatever the service says.
	enabled := make([]model.PaymentMethod, 0, len(gateways))
	for _, g := range gateways {
		if g.Enabled {
			enabled = append(enabled, g)
		}
	}

	return enabled, nil
}

func (c *wooClientImpl) CreateOrder(ctx context.Context, order *model.OrderRequest) (*model.OrderResult, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("orders"), bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, remoteError(resp)
	}

	var result model.OrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	return &result, nil
}

// remoteError maps a non-2xx response to a RemoteError, preferring the
// service's own message over a canned one.
func remoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(raw, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			msg = "invalid WooCommerce API credentials"
		case http.StatusForbidden:
			msg = "API access forbidden - check permissions"
		case http.StatusNotFound:
			msg = "WooCommerce store not found"
		}
	}

	return &RemoteError{Status: resp.StatusCode, Message: msg}
}
