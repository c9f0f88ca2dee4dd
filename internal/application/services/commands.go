package services

// CheckoutCommand starts a web checkout for the caller's cart.
type CheckoutCommand struct {
	UserID string
	Title  string
}

// MandateCheckoutCommand starts an in-app subscription order. The returned raw
// request is handed to the mobile SDK instead of a browser redirect.
type MandateCheckoutCommand struct {
	UserID      string
	Title       string
	ContractNo  string
	TemplateID  string
	ExecuteTime string
}

type AuthTokenCommand struct {
	AppToken string
}
