package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

func TestSummarizeEmpty(t *testing.T) {
	ind := Summarize(nil)
	assert.Equal(t, 0, ind.Count)
	assert.True(t, ind.InventoryValue.IsZero())
	assert.Equal(t, 0, ind.TotalQuantity)
	assert.True(t, ind.AverageTicket.IsZero())
}

func TestSummarizeInventoryValue(t *testing.T) {
	list := sampleListings()
	want := decimal.Zero
	qty := 0
	for _, l := range list {
		want = want.Add(l.SalePrice.Mul(decimal.NewFromInt(int64(l.StockQuantity))))
		qty += l.StockQuantity
	}
	ind := Summarize(list)
	assert.Equal(t, len(list), ind.Count)
	assert.True(t, want.Equal(ind.InventoryValue), "got %s want %s", ind.InventoryValue, want)
	assert.Equal(t, qty, ind.TotalQuantity)
}

func TestSummarizeUnparseablePriceContributesZero(t *testing.T) {
	price, _ := domain.ParseAmount("n/a")
	list := []domain.Listing{
		listing("A", "", "active", "classic", 10, 2),
		{ListingID: "B", SalePrice: price, StockQuantity: 4},
	}
	ind := Summarize(list)
	assert.Equal(t, "20", ind.InventoryValue.String())
	assert.Equal(t, 6, ind.TotalQuantity)
	assert.Equal(t, "3.33", ind.AverageTicket.StringFixed(2))
}

func TestTypeHistogram(t *testing.T) {
	h := TypeHistogram(sampleListings())
	assert.Equal(t, []domain.TypeCount{
		{ListingType: "classic", Count: 4},
		{ListingType: "premium", Count: 2},
		{ListingType: "free", Count: 1},
	}, h)
	assert.Empty(t, TypeHistogram(nil))
}

func TestTopByStockStable(t *testing.T) {
	top := TopByStock(sampleListings(), TopStockSize)
	// MLB3, MLB4 and MLB7 tie at 12 and keep input order
	assert.Equal(t, []string{"MLB6", "MLB3", "MLB4", "MLB7", "MLB1"}, ids(top))

	assert.Len(t, TopByStock(scenarioListings(), 5), 2)
	assert.Empty(t, TopByStock(nil, 5))
}
