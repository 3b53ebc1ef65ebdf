// Package clients manages customers who buy on credit and derives their
// debt balances from the debt and payment ledgers.
package clients

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/shared"
)

// DefaultPerPage is the page size of the client listing.
const DefaultPerPage = 50

// Client is a customer of the shop.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Telephone string    `json:"telephone"`
	Telegram  *string   `json:"telegram"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientWithStats augments a client with balances derived from its ledger rows.
type ClientWithStats struct {
	Client
	TotalDebt     decimal.Decimal `json:"total_debt"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
	LastPaymentAt *time.Time      `json:"last_payment_at"`
}

// CreateInput holds the fields of a new client.
type CreateInput struct {
	Name      string
	Telephone string
	Telegram  *string
}

// UpdateInput holds a partial update. Nil fields are left unchanged; an
// empty Telegram clears the handle.
type UpdateInput struct {
	Name      *string
	Telephone *string
	Telegram  *string
}

// ListFilter selects a page of clients and the month their stats cover.
type ListFilter struct {
	Month *shared.MonthRange
	Page  shared.PageRequest
}

// Totals are debt and payment sums over a set of ledger rows.
type Totals struct {
	TotalDebts    decimal.Decimal `json:"total_debts"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
}

// NewTotals derives the remaining debt.
func NewTotals(debts, payments decimal.Decimal) Totals {
	return Totals{TotalDebts: debts, TotalPayments: payments, RemainingDebt: debts.Sub(payments)}
}

// HistoryEntry is one debt or payment in a client's merged history.
type HistoryEntry struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	Date        time.Time       `json:"date"`
}

// History entry types.
const (
	EntryDebt    = "debt"
	EntryPayment = "payment"
)

// ClientRef is the short form of a client embedded in reports.
type ClientRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// History is a client's statement for a month or for all time.
type History struct {
	Client     ClientRef      `json:"client"`
	Statistics Totals         `json:"statistics"`
	History    []HistoryEntry `json:"history"`
	Month      string         `json:"month"`
}

// MonthlyStats are shop-wide debt totals.
type MonthlyStats struct {
	Totals
	Month string `json:"month"`
}
