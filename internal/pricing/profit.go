package pricing

import (
	"math"

	"github.com/ademicho123/Retail-Arbitrage/internal/failure"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
)

// RecommendMarginPercent is the minimum profit margin of a recommended listing.
const RecommendMarginPercent = 20.0

// ComputeProfits annotates listings with profit metrics against the cheapest listing.
// It returns new listings and leaves the input untouched.
func ComputeProfits(listings []models.PriceListing) ([]models.PriceListing, float64, error) {
	if len(listings) == 0 {
		return nil, 0, failure.New(failure.KindNoPricingData, NoPricingDataMessage)
	}

	basePrice := BasePrice(listings)
	out := make([]models.PriceListing, len(listings))
	for i, l := range listings {
		l.Profit = round2(basePrice - l.Price)
		if l.Price == 0 {
			l.ProfitMargin = 0
		} else {
			l.ProfitMargin = round2((basePrice - l.Price) / l.Price * 100)
		}
		l.Recommend = l.ProfitMargin >= RecommendMarginPercent
		out[i] = l
	}
	return out, basePrice, nil
}

// BasePrice returns the lowest listing price; the first minimum wins.
func BasePrice(listings []models.PriceListing) float64 {
	if len(listings) == 0 {
		return 0
	}
	base := listings[0].Price
	for _, l := range listings[1:] {
		if l.Price < base {
			base = l.Price
		}
	}
	return base
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
