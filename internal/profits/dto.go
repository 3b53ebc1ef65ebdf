package profits

import "github.com/shopspring/decimal"

type createProfitRequest struct {
	Month           *int                `json:"month" validate:"required"`
	TotalRevenue    *decimal.Decimal    `json:"total_revenue" validate:"required"`
	TotalExpenses   *decimal.Decimal    `json:"total_expenses" validate:"required"`
	TotalDebtsAdded *decimal.Decimal    `json:"total_debts_added" validate:"required"`
	DebtPayments    *decimal.Decimal    `json:"debt_payments"`
	ProductProfit   decimal.NullDecimal `json:"product_profit"`
	NetProfit       *decimal.Decimal    `json:"net_profit"`
}

func (r createProfitRequest) input() CreateInput {
	in := CreateInput{
		Month:           *r.Month,
		TotalRevenue:    *r.TotalRevenue,
		TotalExpenses:   *r.TotalExpenses,
		TotalDebtsAdded: *r.TotalDebtsAdded,
		ProductProfit:   r.ProductProfit,
		NetProfit:       r.NetProfit,
	}
	if r.DebtPayments != nil {
		in.DebtPayments = *r.DebtPayments
	}
	return in
}

type updateProfitRequest struct {
	Month           *int             `json:"month"`
	TotalRevenue    *decimal.Decimal `json:"total_revenue"`
	TotalExpenses   *decimal.Decimal `json:"total_expenses"`
	TotalDebtsAdded *decimal.Decimal `json:"total_debts_added"`
	DebtPayments    *decimal.Decimal `json:"debt_payments"`
	ProductProfit   presentDecimal   `json:"product_profit"`
	NetProfit       *decimal.Decimal `json:"net_profit"`
}

func (r updateProfitRequest) input() UpdateInput {
	in := UpdateInput{
		Month:           r.Month,
		TotalRevenue:    r.TotalRevenue,
		TotalExpenses:   r.TotalExpenses,
		TotalDebtsAdded: r.TotalDebtsAdded,
		DebtPayments:    r.DebtPayments,
		NetProfit:       r.NetProfit,
	}
	if r.ProductProfit.Set {
		in.ProductProfit = &r.ProductProfit.Value
	}
	return in
}

// presentDecimal tells an explicit null apart from an absent key.
type presentDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

func (p *presentDecimal) UnmarshalJSON(b []byte) error {
	p.Set = true
	return p.Value.UnmarshalJSON(b)
}
