package rewards

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/borla2earn/backend/pkg/enums"
	apperrors "github.com/borla2earn/backend/pkg/errors"
)

// Calculate converts a verified quantity in kilograms into BORLA tokens.
// The mapping is pure: same kind and quantity always yield the same amount.
func Calculate(kind enums.WasteKind, quantity decimal.Decimal) (decimal.Decimal, error) {
	rate, ok := RateFor(kind)
	if !ok {
		return decimal.Zero, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown waste kind %q", kind))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, apperrors.New(apperrors.CodeValidation, "quantity must be greater than zero")
	}

	return rate.Mul(quantity), nil
}
