package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

func listing(id, sku, status, kind string, price int64, qty int) domain.Listing {
	return domain.Listing{
		ListingID:     id,
		SKU:           sku,
		Status:        status,
		ListingType:   kind,
		SalePrice:     decimal.NewFromInt(price),
		ShippingCost:  decimal.Zero,
		StockQuantity: qty,
		CatalogStatus: domain.DefaultCatalogStatus,
		FlexStatus:    domain.DefaultFlexStatus,
	}
}

func scenarioListings() []domain.Listing {
	return []domain.Listing{
		listing("MLB1", "ABC-1", "active", "classic", 10, 5),
		listing("MLB2", "XYZ-9", "paused", "premium", 20, 0),
	}
}

func sampleListings() []domain.Listing {
	return []domain.Listing{
		listing("MLB1", "ABC-1", "active", "classic", 10, 5),
		listing("MLB2", "XYZ-9", "paused", "premium", 20, 0),
		listing("MLB3", "abc-2", "active", "premium", 7, 12),
		listing("MLB4", "", "active", "classic", 3, 12),
		listing("MLB5", "KIT-ABC", "closed", "classic", 100, 1),
		listing("MLB6", "Z-1", "active", "free", 1, 30),
		listing("MLB7", "Z-2", "paused", "classic", 2, 12),
	}
}

func ids(list []domain.Listing) []string {
	out := make([]string, 0, len(list))
	for _, l := range list {
		out = append(out, l.ListingID)
	}
	return out
}
