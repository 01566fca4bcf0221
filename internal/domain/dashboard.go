package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Indicators struct {
	Count          int             `json:"count"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	TotalQuantity  int             `json:"total_quantity"`
	TotalSales     int             `json:"total_sales"`
	AverageTicket  decimal.Decimal `json:"average_ticket"`
}

type TypeCount struct {
	ListingType string `json:"listing_type"`
	Count       int    `json:"count"`
}

type Dashboard struct {
	Filter        ListingFilter `json:"filter"`
	Options       FilterOptions `json:"options"`
	Listings      []Listing     `json:"listings"`
	Total         int           `json:"total"`
	Indicators    Indicators    `json:"indicators"`
	TypeHistogram []TypeCount   `json:"type_histogram"`
	TopStock      []Listing     `json:"top_stock"`
	Warning       string        `json:"warning,omitempty"`
	GeneratedAt   time.Time     `json:"generated_at"`
}

// ColumnMapping maps canonical field → header actually used ("" when absent).
type ColumnMapping map[string]string

type DroppedRows struct {
	Blank     int `json:"blank"`
	MissingID int `json:"missing_id"`
	Duplicate int `json:"duplicate"`
}

type IngestReport struct {
	ID        string        `json:"id"`
	FileName  string        `json:"file_name,omitempty"`
	Sheet     string        `json:"sheet,omitempty"`
	Inserted  int           `json:"inserted"`
	Dropped   DroppedRows   `json:"dropped"`
	Mapping   ColumnMapping `json:"mapping"`
	Warnings  []FormatError `json:"warnings,omitempty"`
	DryRun    bool          `json:"dry_run,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
