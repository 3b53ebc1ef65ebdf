package ledger

import "github.com/shopspring/decimal"

type createEntryRequest struct {
	ClientID    int64            `json:"client_id" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
}
