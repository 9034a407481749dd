package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	PriceMaxDigits     = 10
	PriceDecimalPlaces = 2
)

var ErrPriceOutOfRange = errors.New("price does not fit numeric(10,2)")

var priceIntegerLimit = decimal.New(1, PriceMaxDigits-PriceDecimalPlaces)

// Price is a fixed point amount serialized as a string with two decimals ("12.00").
// On input both strings and JSON numbers are accepted.
type Price struct {
	decimal.Decimal
}

func NewPrice(value string) (Price, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", value, err)
	}
	return Price{d}, nil
}

func MustPrice(value string) Price {
	p, err := NewPrice(value)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.StringFixed(PriceDecimalPlaces))
}

func (p *Price) UnmarshalJSON(data []byte) error {
	if err := p.Decimal.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid price %s", data)
	}
	return nil
}

// Validate checks the value against the numeric(10,2) column it is stored in.
func (p Price) Validate() error {
	if !p.Equal(p.Truncate(PriceDecimalPlaces)) {
		return fmt.Errorf("%w: more than %d decimal places", ErrPriceOutOfRange, PriceDecimalPlaces)
	}
	if p.Abs().GreaterThanOrEqual(priceIntegerLimit) {
		return fmt.Errorf("%w: more than %d digits before the decimal point", ErrPriceOutOfRange, PriceMaxDigits-PriceDecimalPlaces)
	}
	return nil
}
