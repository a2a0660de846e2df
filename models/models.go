package models

import "time"

type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionRefurbished Condition = "Refurbished"
	ConditionUsed        Condition = "Used"
)

type Availability string

const (
	AvailabilityInStock      Availability = "In Stock"
	AvailabilityPreOrder     Availability = "Pre-order"
	AvailabilitySpecialOrder Availability = "Special Order"
)

type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyAdvanced Difficulty = "Advanced"
)

type PerformanceLevel string

const (
	PerformanceStandard PerformanceLevel = "Standard"
	PerformanceHigh     PerformanceLevel = "High Performance"
	PerformanceRacing   PerformanceLevel = "Racing"
)

// Compatibility describes which vehicles a part fits. The sentinel value
// "Any" in Makes or Models matches every vehicle; a missing Series list
// means the part is not trim-specific.
type Compatibility struct {
	Makes  []string `json:"make"`
	Models []string `json:"model"`
	Years  []int    `json:"years"`
	Series []string `json:"series,omitempty"`
}

// Product is a catalog record. The catalog is seeded once at startup and
// never mutated afterwards.
type Product struct {
	ID               string            `gorm:"primaryKey;size:32" json:"id"`
	Name             string            `gorm:"not null;size:200" json:"name"`
	Category         string            `gorm:"not null;size:100;index" json:"category"`
	SubCategory      string            `gorm:"size:100" json:"subCategory"`
	Brand            string            `gorm:"size:100" json:"brand"`
	Price            float64           `gorm:"not null;check:price >= 0" json:"price"`
	Rating           float64           `json:"rating"`
	Reviews          int               `json:"reviews"`
	Image            string            `json:"image"`
	Compatibility    Compatibility     `gorm:"serializer:json" json:"compatibility"`
	Condition        Condition         `gorm:"size:20" json:"condition"`
	Availability     Availability      `gorm:"size:20" json:"availability"`
	Description      string            `gorm:"type:text" json:"description"`
	Specifications   map[string]string `gorm:"serializer:json" json:"specifications"`
	Difficulty       Difficulty        `gorm:"size:20" json:"difficulty"`
	PerformanceLevel PerformanceLevel  `gorm:"size:30" json:"performanceLevel"`
}

// FilterCriteria holds the active catalog filters for one session. An
// empty or default value on any dimension means "no restriction", never
// "match nothing".
type FilterCriteria struct {
	Manufacturer string   `json:"manufacturer"`
	Series       string   `json:"series"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Performance  []string `json:"performance"`
	Categories   []string `json:"categories"`
	MaxPrice     int      `json:"maxPrice"`
}

// CartLine is one cart entry: a product and a positive quantity. The
// ledger guarantees at most one line per product ID.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// SearchIntent is the structured result of parsing a natural-language
// search query. Zero values mean the query did not mention that facet.
type SearchIntent struct {
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	PartType string `json:"partType"`
	Urgency  string `json:"urgency"`
}

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
