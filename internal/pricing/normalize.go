// Package pricing turns raw scrape records into priced listings and computes
// the profit of each listing against the cheapest one.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ademicho123/Retail-Arbitrage/internal/failure"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
)

// NoPricingDataMessage is reported when no record yields a usable price.
const NoPricingDataMessage = "No pricing data found for this product"

// Price fields in lookup order. The first one present decides the price.
var priceFields = []string{"price", "Price", "cost", "amount", "value"}

// currencyStripper removes currency symbols and thousands separators.
var currencyStripper = strings.NewReplacer("$", "", "€", "", "£", "", ",", "")

// fieldAccessor reads one text field from a record, falling back through keys.
type fieldAccessor struct {
	keys     []string
	fallback string
}

var (
	titleField   = fieldAccessor{keys: []string{"title", "name"}, fallback: models.DefaultTitle}
	linkField    = fieldAccessor{keys: []string{"url", "link"}, fallback: models.DefaultLink}
	ratingField  = fieldAccessor{keys: []string{"rating", "stars"}, fallback: models.DefaultRating}
	reviewsField = fieldAccessor{keys: []string{"reviews", "reviewsCount"}, fallback: models.DefaultReviews}
)

// read returns the first present, non-null key as text.
// Strings are returned as-is; other values are rendered as their JSON text.
func (a fieldAccessor) read(item models.RawItem) string {
	for _, key := range a.keys {
		v := item.Get(key)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.Type == gjson.String {
			return v.String()
		}
		return v.Raw
	}
	return a.fallback
}

// NormalizeStats reports how many records were converted or dropped.
type NormalizeStats struct {
	Total   int
	Kept    int
	Dropped int
}

// Normalize converts raw records into listings.
// Records without a usable price are dropped; Normalize never fails.
func Normalize(items []models.RawItem) ([]models.PriceListing, NormalizeStats) {
	stats := NormalizeStats{Total: len(items)}
	listings := make([]models.PriceListing, 0, len(items))

	for _, item := range items {
		listing, ok := normalizeItem(item)
		if !ok {
			stats.Dropped++
			continue
		}
		listings = append(listings, listing)
	}

	stats.Kept = len(listings)
	return listings, stats
}

// NormalizeListings is Normalize that reports an empty result as no_pricing_data.
func NormalizeListings(items []models.RawItem) ([]models.PriceListing, NormalizeStats, error) {
	listings, stats := Normalize(items)
	if len(listings) == 0 {
		return nil, stats, failure.New(failure.KindNoPricingData, NoPricingDataMessage)
	}
	return listings, stats, nil
}

func normalizeItem(item models.RawItem) (models.PriceListing, bool) {
	if !item.IsObject() {
		return models.PriceListing{}, false
	}

	price, ok := extractPrice(item)
	if !ok {
		return models.PriceListing{}, false
	}

	return models.PriceListing{
		Title:   titleField.read(item),
		Price:   price,
		Link:    linkField.read(item),
		Site:    models.Site,
		Rating:  ratingField.read(item),
		Reviews: reviewsField.read(item),
	}, true
}

// extractPrice reads the price of a record.
// The first present, non-null price field decides even if it cannot be parsed.
func extractPrice(item models.RawItem) (float64, bool) {
	for _, field := range priceFields {
		v := item.Get(field)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		return parsePrice(v)
	}
	return 0, false
}

// parsePrice converts a JSON number or a currency string to a price.
func parsePrice(v gjson.Result) (float64, bool) {
	var price float64
	switch v.Type {
	case gjson.Number:
		price = v.Float()
	case gjson.String:
		cleaned := strings.TrimSpace(currencyStripper.Replace(v.String()))
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		price = parsed
	default:
		return 0, false
	}

	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, false
	}
	return price, true
}
