// Package pricing is the only place display prices are derived. Every
// surface (dashboard list, CSV export, public storefront) renders the
// values returned by ComputePrices and never recomputes them.
package pricing

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
)

// Display convention for every price string: Brazilian real, pt-BR digits.
const CurrencySymbol = "R$"

var displayLocale = language.BrazilianPortuguese

type Prices struct {
	OriginalPrice          float64 `json:"original_price"`
	FinalPrice             float64 `json:"final_price"`
	DiscountPercent        float64 `json:"discount_percent"`
	HasDiscount            bool    `json:"has_discount"`
	FormattedOriginalPrice string  `json:"formatted_original_price"`
	FormattedFinalPrice    string  `json:"formatted_final_price"`
}

// ComputePrices never fails: a negative price is treated as 0 and the
// discount is clipped to [0,100]. A nil discount means no discount.
func ComputePrices(price float64, discountPercent *float64) Prices {
	original := sanitizePrice(price)
	discount := 0.0
	if discountPercent != nil {
		discount = clampDiscount(*discountPercent)
	}

	out := Prices{
		OriginalPrice:   original,
		FinalPrice:      original,
		DiscountPercent: discount,
		HasDiscount:     discount > 0,
	}
	if out.HasDiscount {
		out.FinalPrice = Round2(original * (1 - discount/100))
	}
	out.FormattedOriginalPrice = Format(out.OriginalPrice)
	out.FormattedFinalPrice = Format(out.FinalPrice)
	return out
}

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format renders an already computed amount, e.g. "R$ 1.234,56".
func Format(amount float64) string {
	p := message.NewPrinter(displayLocale)
	return CurrencySymbol + " " + p.Sprintf("%.2f", amount)
}

func sanitizePrice(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clampDiscount(v float64) float64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 100:
		return 100
	default:
		return v
	}
}

// ValidatePrice rejects values ComputePrices would have to coerce.
func ValidatePrice(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: price must be a non-negative number", catalog.ErrValidation)
	}
	return nil
}

// ValidateDiscount accepts nil (no discount) or a value in [0,100].
func ValidateDiscount(v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 || *v > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", catalog.ErrValidation)
	}
	return nil
}
