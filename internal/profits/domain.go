// Package profits stores the manually maintained monthly profit summaries.
package profits

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/shared"
)

// DefaultPerPage is the page size of the profit listing.
const DefaultPerPage = 20

// MonthlyProfit is one summary row. Month is a calendar month code 1-12.
type MonthlyProfit struct {
	ID              int64               `json:"id"`
	Month           int                 `json:"month"`
	TotalRevenue    decimal.Decimal     `json:"total_revenue"`
	TotalExpenses   decimal.Decimal     `json:"total_expenses"`
	TotalDebtsAdded decimal.Decimal     `json:"total_debts_added"`
	DebtPayments    decimal.Decimal     `json:"debt_payments"`
	ProductProfit   decimal.NullDecimal `json:"product_profit"`
	NetProfit       decimal.Decimal     `json:"net_profit"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// Figures are the writable columns of a summary row.
type Figures struct {
	Month           int
	TotalRevenue    decimal.Decimal
	TotalExpenses   decimal.Decimal
	TotalDebtsAdded decimal.Decimal
	DebtPayments    decimal.Decimal
	ProductProfit   decimal.NullDecimal
	NetProfit       decimal.Decimal
}

// NetProfitOf applies
// revenue - debts added - expenses + debt payments + product profit,
// a NULL product profit counting as zero.
func NetProfitOf(f Figures) decimal.Decimal {
	net := f.TotalRevenue.Sub(f.TotalDebtsAdded).Sub(f.TotalExpenses).Add(f.DebtPayments)
	if f.ProductProfit.Valid {
		net = net.Add(f.ProductProfit.Decimal)
	}
	return net
}

// Figures returns the writable columns of p.
func (p MonthlyProfit) Figures() Figures {
	return Figures{
		Month:           p.Month,
		TotalRevenue:    p.TotalRevenue,
		TotalExpenses:   p.TotalExpenses,
		TotalDebtsAdded: p.TotalDebtsAdded,
		DebtPayments:    p.DebtPayments,
		ProductProfit:   p.ProductProfit,
		NetProfit:       p.NetProfit,
	}
}

// CreateInput holds a new summary row. A nil NetProfit is computed.
type CreateInput struct {
	Month           int
	TotalRevenue    decimal.Decimal
	TotalExpenses   decimal.Decimal
	TotalDebtsAdded decimal.Decimal
	DebtPayments    decimal.Decimal
	ProductProfit   decimal.NullDecimal
	NetProfit       *decimal.Decimal
}

// UpdateInput holds a partial update. When NetProfit is nil and any figure
// changes, net profit is recomputed from the merged row.
type UpdateInput struct {
	Month           *int
	TotalRevenue    *decimal.Decimal
	TotalExpenses   *decimal.Decimal
	TotalDebtsAdded *decimal.Decimal
	DebtPayments    *decimal.Decimal
	ProductProfit   *decimal.NullDecimal
	NetProfit       *decimal.Decimal
}

func (u UpdateInput) touchesFigures() bool {
	return u.TotalRevenue != nil || u.TotalExpenses != nil || u.TotalDebtsAdded != nil ||
		u.DebtPayments != nil || u.ProductProfit != nil
}

// ListFilter selects rows by month code; a nil Month lists everything.
type ListFilter struct {
	Month *int
	Page  shared.PageRequest
}

// check rejects figures a NUMERIC(14,2) column cannot hold, including a
// derived net profit.
func (f Figures) check() error {
	verr := &shared.ValidationError{}
	shared.CheckAmount(verr, "total_revenue", f.TotalRevenue)
	shared.CheckAmount(verr, "total_expenses", f.TotalExpenses)
	shared.CheckAmount(verr, "total_debts_added", f.TotalDebtsAdded)
	shared.CheckAmount(verr, "debt_payments", f.DebtPayments)
	if f.ProductProfit.Valid {
		shared.CheckAmount(verr, "product_profit", f.ProductProfit.Decimal)
	}
	shared.CheckAmount(verr, "net_profit", f.NetProfit)
	return verr.OrNil()
}

func invalidMonth() error {
	return shared.NewValidationError("month", "The month must be a month number (1-12) or YYYY-MM.")
}

// ParseMonthFilter turns "7", "07" or "2025-07" into a month code.
// Empty and "all" yield nil.
func ParseMonthFilter(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	if strings.Contains(raw, "-") {
		if _, err := time.Parse(shared.MonthLayout, raw); err != nil {
			return nil, invalidMonth()
		}
		raw = raw[len(raw)-2:]
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !ValidMonth(n) {
		return nil, invalidMonth()
	}
	return &n, nil
}

// ValidMonth reports whether m is a calendar month code.
func ValidMonth(m int) bool {
	return m >= 1 && m <= 12
}
