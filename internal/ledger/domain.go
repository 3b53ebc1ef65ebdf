// Package ledger stores the append-only debt and payment rows of clients.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/shared"
)

// Kind selects which ledger an operation targets.
type Kind string

const (
	// Debt rows record goods given on credit.
	Debt Kind = "debt"
	// Payment rows record money received against debt.
	Payment Kind = "payment"
)

// Table returns the backing table name.
func (k Kind) Table() string {
	if k == Payment {
		return "payments"
	}
	return "debt_records"
}

// Label is used in log lines and error messages.
func (k Kind) Label() string {
	if k == Payment {
		return "payment"
	}
	return "debt record"
}

// UnknownClientName is shown for rows whose client has been deleted.
const UnknownClientName = "Unknown client"

// DefaultPerPage is the page size of ledger listings.
const DefaultPerPage = 20

// RecentLimit is the number of rows returned by Recent by default.
const RecentLimit = 5

// Entry is a single debt or payment row.
type Entry struct {
	ID          int64           `json:"id"`
	ClientID    int64           `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateInput describes a new ledger row.
type CreateInput struct {
	ClientID    int64
	Amount      decimal.Decimal
	Description *string
}

// ListFilter narrows a ledger listing.
type ListFilter struct {
	ClientID *int64
	Month    *shared.MonthRange
	Page     shared.PageRequest
}
