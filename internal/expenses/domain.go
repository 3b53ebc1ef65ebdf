// Package expenses records business expenses by category and business date.
package expenses

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/dokon-erp/dokon/internal/shared"
)

// Category is the six-member expense enumeration.
type Category uint8

const (
	CategoryRent        Category = 1
	CategoryInternet    Category = 2
	CategoryElectricity Category = 3
	CategoryTax         Category = 4
	CategorySalary      Category = 5
	CategoryPersonal    Category = 6
)

// Categories lists every category in code order.
var Categories = []Category{CategoryRent, CategoryInternet, CategoryElectricity, CategoryTax, CategorySalary, CategoryPersonal}

var categoryLabels = map[Category]string{
	CategoryRent:        "Arenda",
	CategoryInternet:    "Internet",
	CategoryElectricity: "Elektr",
	CategoryTax:         "Soliq",
	CategorySalary:      "Ish haqi",
	CategoryPersonal:    "Shaxsiy xarajat",
}

var categoryAliases = map[string]Category{
	"rent":            CategoryRent,
	"arenda":          CategoryRent,
	"internet":        CategoryInternet,
	"electricity":     CategoryElectricity,
	"elektr":          CategoryElectricity,
	"tax":             CategoryTax,
	"soliq":           CategoryTax,
	"salary":          CategorySalary,
	"ish haqi":        CategorySalary,
	"personal":        CategoryPersonal,
	"shaxsiy xarajat": CategoryPersonal,
}

// Valid reports whether c is a known code.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label, empty for unknown codes.
func (c Category) Label() string {
	return categoryLabels[c]
}

func invalidCategory() error {
	return shared.NewValidationError("category", "The selected category is invalid.")
}

// ParseCategory accepts a code 1-6 or a known label; anything else is rejected.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > 255 || !Category(n).Valid() {
			return 0, invalidCategory()
		}
		return Category(n), nil
	}
	if c, ok := categoryAliases[cases.Fold().String(raw)]; ok {
		return c, nil
	}
	return 0, invalidCategory()
}

// UnmarshalJSON accepts a JSON number or label string.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*c = 0
		return nil
	case float64:
		if v != float64(int(v)) {
			return invalidCategory()
		}
		parsed, err := ParseCategory(strconv.Itoa(int(v)))
		if err != nil {
			return err
		}
		*c = parsed
	case string:
		parsed, err := ParseCategory(v)
		if err != nil {
			return err
		}
		*c = parsed
	default:
		return invalidCategory()
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

// DateLayout is the wire format of business dates.
const DateLayout = "2006-01-02"

// Date is a calendar date accepted as "2006-01-02" or RFC 3339.
type Date struct {
	time.Time
}

// ParseDate parses a business date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return Date{t}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}, nil
	}
	return Date{}, shared.NewValidationError("date", "The date field must be a valid date.")
}

// UnmarshalJSON parses a quoted date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return shared.NewValidationError("date", "The date field must be a valid date.")
	}
	if raw == nil {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Expense is a single outgoing payment.
type Expense struct {
	ID          int64           `json:"id"`
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MarshalJSON renders the date without time and adds the category label.
func (e Expense) MarshalJSON() ([]byte, error) {
	type alias Expense
	return json.Marshal(struct {
		alias
		Date          string `json:"date"`
		CategoryLabel string `json:"category_label"`
	}{alias: alias(e), Date: e.Date.Format(DateLayout), CategoryLabel: e.Category.Label()})
}

// CreateInput holds a new expense.
type CreateInput struct {
	Category    Category
	Amount      decimal.Decimal
	Description *string
	Date        time.Time
}

// UpdateInput holds a partial update.
type UpdateInput struct {
	Category    *Category
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// ListFilter selects expenses whose business date falls in Month.
type ListFilter struct {
	Month *shared.MonthRange
	Page  shared.PageRequest
}

// DefaultPerPage is the page size of the expense listing.
const DefaultPerPage = 100

// RecentLimit is the default size of the recent expenses widget.
const RecentLimit = 5
