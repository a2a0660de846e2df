package models

// View is the session's current screen. Each variant carries exactly the
// data that screen needs, so a view can never be rendered with missing
// state. OrderConfirmedView is only ever entered by a completed order,
// never by direct navigation.
type View interface {
	ViewName() string
}

type CatalogView struct{}

func (CatalogView) ViewName() string { return "catalog" }

type ProductDetailView struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (ProductDetailView) ViewName() string { return "productDetail" }

type CartView struct{}

func (CartView) ViewName() string { return "cart" }

type CheckoutView struct{}

func (CheckoutView) ViewName() string { return "checkout" }

type OrderConfirmedView struct {
	OrderNumber string `json:"orderNumber"`
}

func (OrderConfirmedView) ViewName() string { return "orderConfirmed" }

type AccountView struct {
	Profile Profile `json:"profile"`
}

func (AccountView) ViewName() string { return "account" }

// Profile is the static demo account shown on the account screen. There
// is no authentication in this deployment.
type Profile struct {
	Name        string `json:"name"`
	MemberSince string `json:"memberSince"`
}

func DemoProfile() Profile {
	return Profile{Name: "John Doe", MemberSince: "January 2024"}
}
