package models

import "encoding/json"

// FallbackItemName is substituted for line items persisted without a name.
const FallbackItemName = "Producto"

// rawOrderLine tolerates the field spellings found on historical orders,
// which stored line items in camelCase or snake_case depending on when they
// were created.
type rawOrderLine struct {
	ItemID       *int64 `json:"item_id"`
	ItemIDCC     *int64 `json:"itemId"`
	VariantID    *int64 `json:"variant_id"`
	VariantIDCC  *int64 `json:"variantId"`
	Name         string `json:"name"`
	ProductName  string `json:"product_name"`
	Weight       string `json:"weight"`
	Quantity     *int   `json:"quantity"`
	Qty          *int   `json:"qty"`
	UnitPrice    *int64 `json:"unit_price"`
	UnitPriceCC  *int64 `json:"unitPrice"`
	Price        *int64 `json:"price"`
	OfferPrice   *int64 `json:"offer_price"`
	OfferPriceCC *int64 `json:"offerPrice"`
	Discounted   *bool  `json:"discounted"`
	DiscountedCC *bool  `json:"isDiscounted"`
}

func coalesceInt64(vals ...*int64) int64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

// NormalizeLines decodes an order's persisted line items onto the canonical
// OrderLine shape, mapping every known historical field spelling. Malformed
// input yields an empty slice, never an error: downstream aggregation and
// formatting must keep working on whatever history contains.
func NormalizeLines(raw json.RawMessage) []OrderLine {
	if len(raw) == 0 {
		return nil
	}

	var rawLines []rawOrderLine
	if err := json.Unmarshal(raw, &rawLines); err != nil {
		return nil
	}

	lines := make([]OrderLine, 0, len(rawLines))
	for _, rl := range rawLines {
		line := OrderLine{
			ItemID:     coalesceInt64(rl.ItemID, rl.ItemIDCC),
			VariantID:  coalesceInt64(rl.VariantID, rl.VariantIDCC),
			Name:       rl.Name,
			Weight:     rl.Weight,
			Quantity:   1,
			UnitPrice:  coalesceInt64(rl.UnitPrice, rl.UnitPriceCC, rl.Price),
			OfferPrice: coalesceInt64(rl.OfferPrice, rl.OfferPriceCC),
		}
		if line.Name == "" {
			line.Name = rl.ProductName
		}
		if line.Name == "" {
			line.Name = FallbackItemName
		}
		if rl.Quantity != nil {
			line.Quantity = *rl.Quantity
		} else if rl.Qty != nil {
			line.Quantity = *rl.Qty
		}

		switch {
		case rl.Discounted != nil:
			line.Discounted = *rl.Discounted
		case rl.DiscountedCC != nil:
			line.Discounted = *rl.DiscountedCC
		default:
			line.Discounted = line.OfferPrice > 0 && line.OfferPrice < line.UnitPrice
		}

		lines = append(lines, line)
	}
	return lines
}
