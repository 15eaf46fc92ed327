package domain

// --- Checkout field groups (one per wizard step) ---

type ShippingFields struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"max=100"`
	Phone       string `json:"phone" validate:"required,min=7,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	AddressLine string `json:"addressLine" validate:"required,max=300"`
	City        string `json:"city" validate:"required,max=100"`
	District    string `json:"district" validate:"max=100"`
	PostalCode  string `json:"postalCode" validate:"max=20"`
}

type PaymentFields struct {
	Method string `json:"method" validate:"required,oneof=cod card bkash nagad"`
	Notes  string `json:"notes" validate:"max=1000"`
}

// CheckoutDraft is the full in-progress checkout form. VendorID identifies
// the storefront the order is placed against; the cart itself lives upstream.
type CheckoutDraft struct {
	VendorID string         `json:"vendorId"`
	Shipping ShippingFields `json:"shipping"`
	Payment  PaymentFields  `json:"payment"`
}

// OrderPayload is the single outbound request body sent to the order
// service on checkout submission.
type OrderPayload struct {
	VendorID      string         `json:"vendorId"`
	Shipping      ShippingFields `json:"shippingAddress"`
	PaymentMethod string         `json:"paymentMethod"`
	Notes         string         `json:"notes,omitempty"`
}

// OrderResult is the order service's response to a placed order.
type OrderResult struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}
