package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

func TestFilterByStatus(t *testing.T) {
	got := FilterListings(scenarioListings(), domain.ListingFilter{Status: "active"})
	assert.Equal(t, []string{"MLB1"}, ids(got))

	ind := Summarize(got)
	assert.Equal(t, 1, ind.Count)
	assert.Equal(t, "50", ind.InventoryValue.String())
	assert.Equal(t, 5, ind.TotalQuantity)
}

func TestFilterSKUCaseInsensitive(t *testing.T) {
	got := FilterListings(scenarioListings(), domain.ListingFilter{SKUQuery: "abc"})
	assert.Equal(t, []string{"MLB1"}, ids(got))

	got = FilterListings(sampleListings(), domain.ListingFilter{SKUQuery: "ABC"})
	assert.Equal(t, []string{"MLB1", "MLB3", "MLB5"}, ids(got))
}

func TestFilterEmptySKUNeverMatches(t *testing.T) {
	got := FilterListings(sampleListings(), domain.ListingFilter{SKUQuery: "a"})
	assert.NotContains(t, ids(got), "MLB4")
}

func TestFilterCombinesWithAnd(t *testing.T) {
	f := domain.ListingFilter{SKUQuery: "z-", Status: "paused", ListingType: "classic"}
	assert.Equal(t, []string{"MLB7"}, ids(FilterListings(sampleListings(), f)))
}

func TestFilterAllSentinelIsNoConstraint(t *testing.T) {
	all := sampleListings()
	for _, f := range []domain.ListingFilter{
		{},
		{Status: domain.AllOption, ListingType: domain.AllOption},
		{Status: "all", SKUQuery: "   "},
	} {
		assert.Equal(t, ids(all), ids(FilterListings(all, f)), "filter %+v", f)
	}
}

func TestFilterIsIdempotentAndOrdered(t *testing.T) {
	all := sampleListings()
	filters := []domain.ListingFilter{
		{Status: "active"},
		{ListingType: "classic"},
		{SKUQuery: "1"},
		{Status: "ACTIVE", ListingType: "premium"},
		{Status: "missing"},
	}
	for _, f := range filters {
		once := FilterListings(all, f)
		twice := FilterListings(once, f)
		assert.Equal(t, ids(once), ids(twice), "idempotence for %+v", f)

		// subset in relative order
		pos := 0
		for _, id := range ids(once) {
			for pos < len(all) && all[pos].ListingID != id {
				pos++
			}
			assert.Less(t, pos, len(all), "%s out of order for %+v", id, f)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	all := sampleListings()
	before := ids(all)
	_ = FilterListings(all, domain.ListingFilter{Status: "paused"})
	assert.Equal(t, before, ids(all))
}

func TestFilterOptionsFromData(t *testing.T) {
	opts := FilterOptions(sampleListings())
	assert.Equal(t, []string{"All", "active", "closed", "paused"}, opts.Statuses)
	assert.Equal(t, []string{"All", "classic", "free", "premium"}, opts.ListingTypes)

	opts = FilterOptions(scenarioListings()[:1])
	assert.Equal(t, []string{"All", "active"}, opts.Statuses)

	opts = FilterOptions(nil)
	assert.Equal(t, []string{"All"}, opts.Statuses)
}
