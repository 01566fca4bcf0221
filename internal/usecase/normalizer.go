package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

const maxWarnings = 50

type Normalizer struct {
	Aliases  Aliases
	Now      func() time.Time
	validate *validator.Validate
}

func NewNormalizer(aliases Aliases) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{Aliases: aliases, Now: time.Now, validate: validator.New()}
}

type NormalizeResult struct {
	Listings []domain.Listing
	Mapping  domain.ColumnMapping
	Dropped  domain.DroppedRows
	Warnings []domain.FormatError
}

// Resolve picks, for each canonical field, the first alias present in header.
// The returned index map only holds resolved fields.
func (n *Normalizer) Resolve(header []string) (domain.ColumnMapping, map[string]int) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := pos[h]; !dup && h != "" {
			pos[h] = i
		}
	}
	mapping := make(domain.ColumnMapping, len(CanonicalFields))
	index := make(map[string]int)
	for _, field := range CanonicalFields {
		mapping[field] = ""
		for _, alias := range n.Aliases[field] {
			if i, ok := pos[alias]; ok {
				mapping[field] = alias
				index[field] = i
				break
			}
		}
	}
	return mapping, index
}

// Normalize turns a raw table into listings ready for ReplaceAll. A header
// without any identifier alias is a *domain.SchemaError.
func (n *Normalizer) Normalize(t *domain.RawTable) (*NormalizeResult, error) {
	if t == nil || len(t.Header) == 0 {
		return nil, &domain.SchemaError{Missing: []string{FieldListingID}, Detail: "empty header row"}
	}
	mapping, index := n.Resolve(t.Header)
	if _, ok := index[FieldListingID]; !ok {
		return nil, &domain.SchemaError{
			Missing: []string{FieldListingID},
			Detail:  "expected one of " + strings.Join(n.Aliases[FieldListingID], ", "),
		}
	}

	now := n.Now()
	res := &NormalizeResult{Mapping: mapping, Listings: make([]domain.Listing, 0, len(t.Rows))}
	seen := make(map[string]struct{}, len(t.Rows))

	for i, row := range t.Rows {
		rowNum := i + 2
		if isBlank(row) {
			res.Dropped.Blank++
			continue
		}
		cell := func(field string) string {
			c, ok := index[field]
			if !ok || c >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[c])
		}
		warn := func(field string) {
			if len(res.Warnings) < maxWarnings {
				res.Warnings = append(res.Warnings, domain.FormatError{Row: rowNum, Field: field, Value: cell(field)})
			}
		}
		amount := func(field string) decimal.Decimal {
			v, ok := domain.ParseAmount(cell(field))
			if !ok {
				warn(field)
			}
			return v
		}
		quantity := func(field string) int {
			v, ok := domain.ParseQuantity(cell(field))
			if !ok {
				warn(field)
			}
			return v
		}
		score := func(field string) float64 {
			v, ok := domain.ParseScore(cell(field))
			if !ok {
				warn(field)
			}
			return v
		}
		timestamp := func(field string) time.Time {
			v, ok := domain.ParseTimestamp(cell(field), now)
			if !ok {
				warn(field)
			}
			return v
		}

		id := cell(FieldListingID)
		if id == "" {
			res.Dropped.MissingID++
			continue
		}
		if _, dup := seen[id]; dup {
			res.Dropped.Duplicate++
			continue
		}
		seen[id] = struct{}{}

		account, ok := domain.ParseInt64(cell(FieldAccountID))
		if !ok {
			warn(FieldAccountID)
		}

		l := domain.Listing{
			ListingID:        id,
			AccountID:        account,
			SKU:              cell(FieldSKU),
			Title:            cell(FieldTitle),
			SalePrice:        amount(FieldSalePrice),
			Status:           lowerOr(cell(FieldStatus), domain.DefaultStatus),
			ListingType:      lowerOr(cell(FieldListingType), domain.DefaultListingType),
			ShippingCost:     amount(FieldShippingCost),
			StockQuantity:    quantity(FieldStockQuantity),
			TotalSales:       quantity(FieldTotalSales),
			CreatedAt:        timestamp(FieldCreatedAt),
			UpdatedAt:        timestamp(FieldUpdatedAt),
			DescriptionScore: score(FieldDescriptionScore),
			SpecSheetScore:   score(FieldSpecSheetScore),
			PhotoScore:       score(FieldPhotoScore),
			CatalogStatus:    valueOr(cell(FieldCatalogStatus), domain.DefaultCatalogStatus),
			FlexStatus:       valueOr(cell(FieldFlexStatus), domain.DefaultFlexStatus),
		}
		if err := n.validate.Struct(l); err != nil {
			return nil, &domain.SchemaError{Detail: fmt.Sprintf("row %d: %v", rowNum, err)}
		}
		res.Listings = append(res.Listings, l)
	}
	return res, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func lowerOr(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
