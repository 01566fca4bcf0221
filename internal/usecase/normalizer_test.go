package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	n := NewNormalizer(nil)
	n.Now = func() time.Time { return fixedNow }
	return n
}

func TestNormalizeResolvesAliases(t *testing.T) {
	table := &domain.RawTable{
		Header: []string{" Item ID ", "SKU", "Title", "PRICE", "AVAILABLE_QUANTITY", "Status", "listing_type_id"},
		Rows: [][]string{
			{"MLB100", "ABC-1", "Capa", "10", "5", "Active", "GOLD_SPECIAL"},
			{"MLB200", "XYZ-9", "Película", "20,00", "0", "paused", "classic"},
		},
	}
	res, err := newTestNormalizer().Normalize(table)
	require.NoError(t, err)

	assert.Equal(t, "Item ID", res.Mapping[FieldListingID])
	assert.Equal(t, "AVAILABLE_QUANTITY", res.Mapping[FieldStockQuantity])
	assert.Equal(t, "", res.Mapping[FieldFlexStatus])
	require.Len(t, res.Listings, 2)

	first := res.Listings[0]
	assert.Equal(t, "MLB100", first.ListingID)
	assert.Equal(t, "active", first.Status)
	assert.Equal(t, "gold_special", first.ListingType)
	assert.Equal(t, "10", first.SalePrice.String())
	assert.Equal(t, 5, first.StockQuantity)
	assert.Equal(t, "20", res.Listings[1].SalePrice.String())
}

func TestNormalizeAliasPriority(t *testing.T) {
	table := &domain.RawTable{
		Header: []string{"ID", "ITEM_ID"},
		Rows:   [][]string{{"internal-1", "MLB1"}},
	}
	res, err := newTestNormalizer().Normalize(table)
	require.NoError(t, err)
	assert.Equal(t, "ITEM_ID", res.Mapping[FieldListingID])
	assert.Equal(t, "MLB1", res.Listings[0].ListingID)
}

func TestNormalizeDefaults(t *testing.T) {
	table := &domain.RawTable{Header: []string{"item_id"}, Rows: [][]string{{"MLB1"}}}
	res, err := newTestNormalizer().Normalize(table)
	require.NoError(t, err)
	require.Len(t, res.Listings, 1)

	l := res.Listings[0]
	assert.Equal(t, domain.DefaultStatus, l.Status)
	assert.Equal(t, domain.DefaultListingType, l.ListingType)
	assert.Equal(t, domain.DefaultCatalogStatus, l.CatalogStatus)
	assert.Equal(t, domain.DefaultFlexStatus, l.FlexStatus)
	assert.True(t, l.SalePrice.IsZero())
	assert.True(t, l.ShippingCost.IsZero())
	assert.Zero(t, l.StockQuantity)
	assert.Zero(t, l.TotalSales)
	assert.Zero(t, l.PhotoScore)
	assert.Equal(t, fixedNow, l.CreatedAt)
	assert.Equal(t, fixedNow, l.UpdatedAt)
	assert.Empty(t, res.Warnings)
}

func TestNormalizeUnparseablePrice(t *testing.T) {
	table := &domain.RawTable{
		Header: []string{"ITEM_ID", "PRICE", "AVAILABLE_QUANTITY"},
		Rows:   [][]string{{"MLB1", "n/a", "3"}},
	}
	res, err := newTestNormalizer().Normalize(table)
	require.NoError(t, err)
	require.Len(t, res.Listings, 1)
	assert.True(t, res.Listings[0].SalePrice.IsZero())
	assert.Equal(t, 3, res.Listings[0].StockQuantity)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.FormatError{Row: 2, Field: FieldSalePrice, Value: "n/a"}, res.Warnings[0])
}

func TestNormalizeOutOfRangeNumbersBecomeWarnings(t *testing.T) {
	table := &domain.RawTable{
		Header: []string{"ITEM_ID", "SELLER_ID", "AVAILABLE_QUANTITY", "SOLD_QUANTITY"},
		Rows: [][]string{
			{"MLB1", "1", "2", "3"},
			{"MLB2", "99999999999999999999", "9223372036854775808", "1e30"},
		},
	}
	res, err := newTestNormalizer().Normalize(table)
	require.NoError(t, err)
	require.Len(t, res.Listings, 2)

	big := res.Listings[1]
	assert.Equal(t, int64(0), big.AccountID)
	assert.Equal(t, 0, big.StockQuantity)
	assert.Equal(t, 0, big.TotalSales)
	assert.Len(t, res.Warnings, 3)
}

func TestNormalizeDropsBlankMissingAndDuplicateRows(t *testing.T) {
	table := &domain.RawTable{
		Header: []string{"ITEM_ID", "SKU"},
		Rows: [][]string{
			{"MLB1", "A"},
			{"", ""},
			{"  ", "orphan"},
			{},
			{"MLB1", "again"},
			{"MLB2"},
		},
	}
	res, err := newTestNormalizer().Normalize(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"MLB1", "MLB2"}, ids(res.Listings))
	assert.Equal(t, "A", res.Listings[0].SKU)
	assert.Equal(t, domain.DroppedRows{Blank: 2, MissingID: 1, Duplicate: 1}, res.Dropped)
}

func TestNormalizeMissingIDColumn(t *testing.T) {
	table := &domain.RawTable{
		Header: []string{"SKU", "PRICE"},
		Rows:   [][]string{{"ABC", "10"}},
	}
	res, err := newTestNormalizer().Normalize(table)
	assert.Nil(t, res)

	var se *domain.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{FieldListingID}, se.Missing)
	assert.Contains(t, se.Error(), "ITEM_ID")
}

func TestNormalizeEmptyHeader(t *testing.T) {
	_, err := newTestNormalizer().Normalize(&domain.RawTable{})
	var se *domain.SchemaError
	assert.True(t, errors.As(err, &se))
}

func TestLoadAliasesExtendsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listing_id:\n  - Código\n  - ITEM_ID\n"), 0o644))

	aliases, err := LoadAliases(path)
	require.NoError(t, err)
	ids := aliases[FieldListingID]
	assert.Equal(t, "ITEM_ID", ids[0])
	assert.Equal(t, "Código", ids[len(ids)-1])

	n := NewNormalizer(aliases)
	res, err := n.Normalize(&domain.RawTable{Header: []string{"Código"}, Rows: [][]string{{"7"}}})
	require.NoError(t, err)
	assert.Equal(t, "Código", res.Mapping[FieldListingID])
}

func TestLoadAliasesRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colour:\n  - Cor\n"), 0o644))
	_, err := LoadAliases(path)
	assert.Error(t, err)
}

func TestDefaultAliasesAreCopies(t *testing.T) {
	a := DefaultAliases()
	a[FieldSKU][0] = "changed"
	assert.Equal(t, "SKU", DefaultAliases()[FieldSKU][0])
}
