package expenses

import "github.com/shopspring/decimal"

type createExpenseRequest struct {
	Category    Category         `json:"category" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Date        *Date            `json:"date" validate:"required"`
}

type updateExpenseRequest struct {
	Category    *Category        `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Date        *Date            `json:"date"`
}
