package inventory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/dokon-erp/dokon/internal/shared"
)

// Category is the closed product category enumeration.
type Category int16

const (
	// CategoryOthers is also the bucket for unrecognised labels.
	CategoryOthers Category = 0
	// CategoryDrinks groups beverages.
	CategoryDrinks Category = 1
	// CategoryEdibles groups food.
	CategoryEdibles Category = 2
)

// Categories lists every category in code order.
var Categories = []Category{CategoryOthers, CategoryDrinks, CategoryEdibles}

var categoryLabels = map[Category]string{
	CategoryOthers:  "Boshqalar",
	CategoryDrinks:  "Ichimliklar",
	CategoryEdibles: "Yeyiladigan narsalar",
}

// categoryAliases maps folded labels onto codes.
var categoryAliases = map[string]Category{
	"others":               CategoryOthers,
	"other":                CategoryOthers,
	"boshqalar":            CategoryOthers,
	"drinks":               CategoryDrinks,
	"drink":                CategoryDrinks,
	"ichimliklar":          CategoryDrinks,
	"edibles":              CategoryEdibles,
	"edible":               CategoryEdibles,
	"food":                 CategoryEdibles,
	"yeyiladigan narsalar": CategoryEdibles,
}

// Valid reports whether c is a known code.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[CategoryOthers]
}

// ParseCategoryLabel matches a label case-insensitively. Unrecognised
// labels fall back to CategoryOthers.
func ParseCategoryLabel(label string) Category {
	if c, ok := categoryAliases[cases.Fold().String(strings.TrimSpace(label))]; ok {
		return c
	}
	return CategoryOthers
}

// ParseCategory accepts a numeric code or a label. Numeric codes must be
// known; labels are lenient.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		c := Category(n)
		if !c.Valid() {
			return 0, shared.NewValidationError("category", "The selected category is invalid.")
		}
		return c, nil
	}
	return ParseCategoryLabel(raw), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) || !Category(int(v)).Valid() {
			return shared.NewValidationError("category", "The selected category is invalid.")
		}
		*c = Category(int(v))
	case string:
		parsed, err := ParseCategory(v)
		if err != nil {
			return err
		}
		*c = parsed
	case nil:
		*c = CategoryOthers
	default:
		return shared.NewValidationError("category", "The category field must be a number or a label.")
	}
	return nil
}

// CategoryOption is an {id,label} pair for selects.
type CategoryOption struct {
	ID    Category `json:"id"`
	Label string   `json:"label"`
}

// CategoryOptions lists all categories.
func CategoryOptions() []CategoryOption {
	out := make([]CategoryOption, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, CategoryOption{ID: c, Label: c.Label()})
	}
	return out
}

// Product is a stocked item. Prices follow the most recent stock entry and sale.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	PurchasePrice float64   `json:"purchase_price"`
	SalePrice     float64   `json:"sale_price"`
	StockQuantity int       `json:"stock_quantity"`
	MinQuantity   int       `json:"min_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MarshalJSON adds the category label and low-stock flag.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		CategoryName string `json:"category_name"`
		LowStock     bool   `json:"low_stock"`
	}{alias: alias(p), CategoryName: p.Category.Label(), LowStock: p.IsLowStock()})
}

// IsLowStock reports whether stock fell to or below the reorder threshold.
func (p Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinQuantity
}

// StockEntry records an inbound stock receipt.
type StockEntry struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sale records an outbound sale.
type Sale struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockResult is returned by AddStock.
type StockResult struct {
	StockEntry StockEntry `json:"stock_entry"`
	Product    Product    `json:"product"`
}

// SaleResult is returned by RecordSale.
type SaleResult struct {
	Sale    Sale    `json:"sale"`
	Product Product `json:"product"`
}

// CreateInput holds the fields of a new product.
type CreateInput struct {
	Name          string
	Category      Category
	PurchasePrice float64
	SalePrice     float64
	StockQuantity int
	MinQuantity   int
}

// UpdateInput holds a partial product update.
type UpdateInput struct {
	Name          *string
	Category      *Category
	PurchasePrice *float64
	SalePrice     *float64
	StockQuantity *int
	MinQuantity   *int
}

// MovementInput describes a stock receipt or a sale.
type MovementInput struct {
	ProductID   int64
	Quantity    int
	UnitPrice   float64
	Description *string
}

// ListFilter narrows product listings. A nil Page returns every product.
type ListFilter struct {
	Category *Category
	Page     *shared.PageRequest
}

// DefaultPerPage is the page size when pagination is requested.
const DefaultPerPage = 20

// InsufficientStockError reports a sale larger than the stock on hand.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// Unwrap exposes the taxonomy sentinel.
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}
