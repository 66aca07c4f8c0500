package evidence

import (
	"encoding/json"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/clearbuy/clearbuy-cli/internal/model"
)

// extractOffers collects product offers from embedded JSON-LD blocks.
// A block that fails to decode is skipped; scanning continues.
func extractOffers(doc *goquery.Document) []model.Offer {
	var offers []model.Offer

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return
		}

		items, ok := payload.([]any)
		if !ok {
			items = []any{payload}
		}
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok || obj["@type"] != "Product" {
				continue
			}
			for _, raw := range asList(obj["offers"]) {
				offer, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				o := model.Offer{Price: asDecimal(offer["price"])}
				if spec, ok := offer["priceSpecification"].(map[string]any); ok {
					o.MaxPrice = asDecimal(spec["maxPrice"])
				}
				if o.Price != nil || o.MaxPrice != nil {
					offers = append(offers, o)
				}
			}
		}
	})

	return offers
}

func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		return []any{t}
	default:
		return nil
	}
}

// asDecimal converts a JSON number or numeric string to a decimal.
func asDecimal(v any) *decimal.Decimal {
	switch t := v.(type) {
	case float64:
		d := decimal.NewFromFloat(t)
		return &d
	case string:
		if _, err := strconv.ParseFloat(t, 64); err != nil {
			return nil
		}
		d, err := decimal.NewFromString(t)
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}
