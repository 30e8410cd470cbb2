package pricing

import (
	"math"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Quote is the resolved price for an item (or one of its variants).
type Quote struct {
	UnitPrice     int64 `json:"unit_price"`
	IsDiscounted  bool  `json:"is_discounted"`
	OriginalPrice int64 `json:"original_price,omitempty"`
}

// Resolver resolves the unit price currently in effect for a catalog item.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a price resolver
func NewResolver() *Resolver {
	return &Resolver{logger: util.GetLogger()}
}

// Resolve returns the price in effect for item, or for variant when one is
// selected and active. A variant's own sale state is derived by comparing its
// offer price to its price, independent of the parent's on-sale flag.
//
// An asserted sale whose offer price is not strictly below the reference
// price is a data inconsistency: the item is treated as not discounted and
// the condition is reported through logging and metrics, never as an error.
func (r *Resolver) Resolve(item *models.CatalogItem, variant *models.Variant) Quote {
	if variant != nil && variant.Active {
		if variant.OfferPrice != nil {
			if *variant.OfferPrice < variant.Price {
				return Quote{
					UnitPrice:     *variant.OfferPrice,
					IsDiscounted:  true,
					OriginalPrice: variant.Price,
				}
			}
			r.reportInconsistency("variant", variant.ID, variant.Price, *variant.OfferPrice)
		}
		return Quote{UnitPrice: variant.Price}
	}

	if item.OnSale && item.OfferPrice != nil {
		if *item.OfferPrice < item.Price {
			return Quote{
				UnitPrice:     *item.OfferPrice,
				IsDiscounted:  true,
				OriginalPrice: item.Price,
			}
		}
		r.reportInconsistency("item", item.ID, item.Price, *item.OfferPrice)
	}
	return Quote{UnitPrice: item.Price}
}

func (r *Resolver) reportInconsistency(kind string, id, price, offerPrice int64) {
	util.PriceConsistencyWarnings.Inc()
	r.logger.Warn("Offer price not below reference price, treating as not discounted",
		zap.String("kind", kind),
		zap.Int64("id", id),
		zap.Int64("price", price),
		zap.Int64("offer_price", offerPrice))
}

// DiscountPercent returns the rounded badge percentage for a sale price.
// A zero reference price yields 0, never NaN or infinity.
func DiscountPercent(basePrice, offerPrice int64) int {
	if basePrice == 0 {
		return 0
	}
	pct := (1 - float64(offerPrice)/float64(basePrice)) * 100
	return int(math.Round(pct))
}
