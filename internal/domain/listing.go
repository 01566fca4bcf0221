package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultStatus        = "active"
	DefaultListingType   = "classic"
	DefaultCatalogStatus = "Not Applicable"
	DefaultFlexStatus    = "Not Eligible"
)

// Listing is one marketplace listing as the dashboard reads it.
type Listing struct {
	ListingID        string          `json:"listing_id" validate:"required"`
	AccountID        int64           `json:"account_id" validate:"min=0"`
	SKU              string          `json:"sku"`
	Title            string          `json:"title"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	Status           string          `json:"status"`
	ListingType      string          `json:"listing_type"`
	ShippingCost     decimal.Decimal `json:"shipping_cost"`
	StockQuantity    int             `json:"stock_quantity" validate:"min=0"`
	TotalSales       int             `json:"total_sales" validate:"min=0"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DescriptionScore float64         `json:"description_score"`
	SpecSheetScore   float64         `json:"spec_sheet_score"`
	PhotoScore       float64         `json:"photo_score"`
	CatalogStatus    string          `json:"catalog_status"`
	FlexStatus       string          `json:"flex_status"`
}

// InventoryValue is price times stock, never negative.
func (l Listing) InventoryValue() decimal.Decimal {
	if l.SalePrice.IsNegative() || l.StockQuantity <= 0 {
		return decimal.Zero
	}
	return l.SalePrice.Mul(decimal.NewFromInt(int64(l.StockQuantity)))
}

// RawTable is a spreadsheet after leading metadata rows were skipped: the
// first row is the header, the rest are data rows with arbitrary width.
type RawTable struct {
	Sheet  string
	Header []string
	Rows   [][]string
}
