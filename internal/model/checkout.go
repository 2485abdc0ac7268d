package model

// ShippingAddress is one saved shipping destination. The JSON tags match the
// field names the commerce API expects, so the same struct is embedded in
// order requests directly.
type ShippingAddress struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsDefault bool   `json:"is_default,omitempty"`
	Label     string `json:"label,omitempty"` // custom label like "Home", "Work"
}

// AddressBook is the full persisted address record: every saved address in
// insertion order plus the id of the default one, if any.
type AddressBook struct {
	Addresses        []ShippingAddress `json:"addresses"`
	DefaultAddressID string            `json:"defaultAddressId,omitempty"`
}

// Find returns the address with the given id, or nil.
func (b *AddressBook) Find(id string) *ShippingAddress {
	for i := range b.Addresses {
		if b.Addresses[i].ID == id {
			return &b.Addresses[i]
		}
	}
	return nil
}

// PaymentMethod is one gateway as reported by the commerce service.
type PaymentMethod struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Enabled           bool   `json:"enabled"`
	MethodTitle       string `json:"method_title,omitempty"`
	MethodDescription string `json:"method_description,omitempty"`
}

// PaymentTiming describes how long a payment method takes to clear.
type PaymentTiming struct {
	Method              string `json:"method"`
	EstimatedProcessing string `json:"estimated_processing"`
	Description         string `json:"description"`
}

// CartItem is one order line as provided by the storefront. Price and name
// are informational only; the commerce service resolves the product itself.
type CartItem struct {
	ProductID   int     `json:"product_id"`
	Quantity    int     `json:"quantity"`
	VariationID int     `json:"variation_id,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Name        string  `json:"name,omitempty"`
}

// ShippingLine is one shipping charge on an order.
type ShippingLine struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       string `json:"total"`
}

// OrderRequest is the order-creation payload sent to the commerce service.
// set_paid is always false: payment confirmation happens downstream.
type OrderRequest struct {
	PaymentMethod      string          `json:"payment_method"`
	PaymentMethodTitle string          `json:"payment_method_title"`
	SetPaid            bool            `json:"set_paid"`
	Status             string          `json:"status"`
	Billing            ShippingAddress `json:"billing"`
	Shipping           ShippingAddress `json:"shipping"`
	LineItems          []CartItem      `json:"line_items"`
	ShippingLines      []ShippingLine  `json:"shipping_lines"`
}

// OrderResult is the normalized response for a created order.
type OrderResult struct {
	ID           int    `json:"id"`
	OrderKey     string `json:"order_key"`
	Number       string `json:"number"`
	Status       string `json:"status"`
	Currency     string `json:"currency"`
	Total        string `json:"total"`
	PaymentURL   string `json:"payment_url,omitempty"`
	DateCreated  string `json:"date_created"`
	DateModified string `json:"date_modified"`
}

// CustomerInfo identifies the buyer opening the checkout.
type CustomerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
