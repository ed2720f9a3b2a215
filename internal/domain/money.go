package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an amount in a currency, kept at the currency's standard scale.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// NewMoney rounds amount to the number of minor digits unit uses.
func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	scale, _ := currency.Standard.Rounding(unit)

	return Money{
		Amount:   amount.Round(int32(scale)),
		Currency: unit,
	}
}

func (m Money) String() string {
	scale, _ := currency.Standard.Rounding(m.Currency)
	return m.Currency.String() + " " + m.Amount.StringFixed(int32(scale))
}
