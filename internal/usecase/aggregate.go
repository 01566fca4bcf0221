package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

const (
	TopStockSize = 5
	noTypeLabel  = "(none)"
)

func Summarize(listings []domain.Listing) domain.Indicators {
	ind := domain.Indicators{
		Count:          len(listings),
		InventoryValue: decimal.Zero,
		AverageTicket:  decimal.Zero,
	}
	for _, l := range listings {
		ind.InventoryValue = ind.InventoryValue.Add(l.InventoryValue())
		if l.StockQuantity > 0 {
			ind.TotalQuantity += l.StockQuantity
		}
		if l.TotalSales > 0 {
			ind.TotalSales += l.TotalSales
		}
	}
	if ind.TotalQuantity > 0 {
		ind.AverageTicket = ind.InventoryValue.Div(decimal.NewFromInt(int64(ind.TotalQuantity))).Round(2)
	}
	return ind
}

// TypeHistogram counts listings per type, most frequent first.
func TypeHistogram(listings []domain.Listing) []domain.TypeCount {
	counts := map[string]int{}
	for _, l := range listings {
		t := l.ListingType
		if t == "" {
			t = noTypeLabel
		}
		counts[t]++
	}
	out := make([]domain.TypeCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, domain.TypeCount{ListingType: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ListingType < out[j].ListingType
	})
	return out
}

// TopByStock returns the n listings with most stock; ties keep input order.
func TopByStock(listings []domain.Listing, n int) []domain.Listing {
	if n <= 0 {
		return []domain.Listing{}
	}
	sorted := make([]domain.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StockQuantity > sorted[j].StockQuantity
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
