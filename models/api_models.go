package models

// Wire types for the HTTP API.

type CatalogResponse struct {
	Products []Product      `json:"products"`
	Criteria FilterCriteria `json:"criteria"`
	Count    int            `json:"count"`
}

// FilterUpdateRequest is a partial criteria update from the filter panel.
// Nil fields are left untouched; the client sends explicit zero values to
// clear a dimension (e.g. series and model reset when the manufacturer
// changes).
type FilterUpdateRequest struct {
	Manufacturer *string   `json:"manufacturer,omitempty"`
	Series       *string   `json:"series,omitempty"`
	Model        *string   `json:"model,omitempty"`
	Year         *int      `json:"year,omitempty"`
	Performance  *[]string `json:"performance,omitempty"`
	Categories   *[]string `json:"categories,omitempty"`
	MaxPrice     *int      `json:"maxPrice,omitempty"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type AddToCartResponse struct {
	Item      CartLine `json:"item"`
	CartCount int      `json:"cartCount"`
}

type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}

type CartResponse struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
	Count int        `json:"count"`
}

type PlaceOrderResponse struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type IdentifyResponse struct {
	Description string `json:"description"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply    string        `json:"reply"`
	Messages []ChatMessage `json:"messages"`
}

type NavigateRequest struct {
	View      string `json:"view"`
	ProductID string `json:"productId,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

type ViewResponse struct {
	View string `json:"view"`
	Data View   `json:"data"`
}

type MetaResponse struct {
	Categories        []string            `json:"categories"`
	Makes             []string            `json:"makes"`
	ModelsByMake      map[string][]string `json:"modelsByMake"`
	SeriesByMake      map[string][]string `json:"seriesByMake"`
	PerformanceLevels []string            `json:"performanceLevels"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
