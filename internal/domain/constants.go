package domain

// Session Kinds
const (
	SessionKindCheckout = "checkout"
	SessionKindProduct  = "product"
)

// Checkout Wizard Steps
const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// Product Wizard Steps
const (
	StepBasic     Step = "basic"
	StepPricing   Step = "pricing"
	StepInventory Step = "inventory"
	StepCategory  Step = "category"
	StepMedia     Step = "media"
	StepVariants  Step = "variants"
)

// Payment Methods
const (
	PaymentMethodCOD   = "cod"
	PaymentMethodCard  = "card"
	PaymentMethodBKash = "bkash"
	PaymentMethodNagad = "nagad"
)

// Attribute set names accepted by the variant generator endpoints
const (
	AttributeSetColors = "colors"
	AttributeSetSizes  = "sizes"
)

// CheckoutFlow is the fixed step order for the checkout wizard.
var CheckoutFlow = []Step{
	StepShipping,
	StepPayment,
	StepReview,
}

// ProductFlow is the fixed step order for the product editor wizard.
var ProductFlow = []Step{
	StepBasic,
	StepPricing,
	StepInventory,
	StepCategory,
	StepMedia,
	StepVariants,
}

// List Exports for API
var PaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodCard,
	PaymentMethodBKash,
	PaymentMethodNagad,
}
