package shared

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest value an INTEGER column holds.
const MaxQuantity = math.MaxInt32

// maxAmount bounds money stored as NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

// CheckAmount records a message on field when d has more than two decimal
// places or does not fit a NUMERIC(14,2) column.
func CheckAmount(verr *ValidationError, field string, d decimal.Decimal) {
	label := strings.ReplaceAll(field, "_", " ")
	switch {
	case !d.Equal(d.Truncate(2)):
		verr.Add(field, "The "+label+" field must not have more than 2 decimal places.")
	case d.Abs().GreaterThanOrEqual(maxAmount):
		verr.Add(field, "The "+label+" field must be less than "+maxAmount.String()+".")
	}
}

// CheckQuantity records a message on field when v does not fit an INTEGER
// column.
func CheckQuantity(verr *ValidationError, field string, v int) {
	if v > MaxQuantity {
		verr.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" field must not be greater than 2147483647.")
	}
}
