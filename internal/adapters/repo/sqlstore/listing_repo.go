package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

const (
	TableName = "Anuncios"
	batchSize = 200
)

// listingRow is the persisted shape of a listing. NULLs and cells that do
// not coerce read as defaults instead of failing the whole query.
type listingRow struct {
	ListingID        string         `gorm:"column:id_anuncio;primaryKey;size:64"`
	AccountID        looseInt       `gorm:"column:id_conta"`
	SKU              sql.NullString `gorm:"column:sku;size:120"`
	Title            sql.NullString `gorm:"column:titulo;size:255"`
	SalePrice        looseAmount    `gorm:"column:preco_venda;type:decimal(12,2)"`
	Status           sql.NullString `gorm:"column:status;size:40"`
	ListingType      sql.NullString `gorm:"column:tipo_anuncio;size:40"`
	ShippingCost     looseAmount    `gorm:"column:custo_frete;type:decimal(12,2)"`
	StockQuantity    looseInt       `gorm:"column:quantidade_estoque"`
	TotalSales       looseInt       `gorm:"column:vendas_totais"`
	CreatedAt        looseTime      `gorm:"column:data_criacao"`
	UpdatedAt        looseTime      `gorm:"column:data_atualizacao"`
	DescriptionScore looseFloat     `gorm:"column:nota_descricao"`
	SpecSheetScore   looseFloat     `gorm:"column:nota_ficha_tecnica"`
	PhotoScore       looseFloat     `gorm:"column:nota_fotos"`
	CatalogStatus    sql.NullString `gorm:"column:status_catalogo;size:40"`
	FlexStatus       sql.NullString `gorm:"column:status_flex;size:40"`
}

func (listingRow) TableName() string { return TableName }

type ListingRepo struct {
	mu       sync.Mutex
	db       *gorm.DB
	dial     func() (*gorm.DB, error)
	migrate  bool
	migrated bool
}

// NewListingRepo uses an already opened connection and does not migrate.
func NewListingRepo(db *gorm.DB) *ListingRepo { return &ListingRepo{db: db, migrated: true} }

// NewLazyListingRepo dials on first use and again after every failed dial,
// so an unreachable store surfaces as an error per call instead of at boot.
func NewLazyListingRepo(dial func() (*gorm.DB, error), autoMigrate bool) *ListingRepo {
	return &ListingRepo{dial: dial, migrate: autoMigrate}
}

func (r *ListingRepo) conn(ctx context.Context) (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		if r.dial == nil {
			return nil, domain.ErrNoDatabase
		}
		db, err := r.dial()
		if err != nil {
			return nil, err
		}
		r.db = db
	}
	if r.migrate && !r.migrated {
		if err := r.db.WithContext(ctx).AutoMigrate(&listingRow{}); err != nil {
			return nil, fmt.Errorf("migrate %s: %w", TableName, err)
		}
		r.migrated = true
		log.Info().Str("table", TableName).Msg("esquema migrado")
	}
	return r.db.WithContext(ctx), nil
}

func (r *ListingRepo) FetchAll(ctx context.Context) ([]domain.Listing, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, &domain.ConnectivityError{Op: "connect", Err: err}
	}
	var rows []listingRow
	if err := db.Order("vendas_totais desc").Order("id_anuncio asc").Find(&rows).Error; err != nil {
		return nil, &domain.ConnectivityError{Op: "fetch", Err: err}
	}
	out := make([]domain.Listing, 0, len(rows))
	var bad []domain.FormatError
	for i, row := range rows {
		l, errs := row.toDomain(i + 1)
		out = append(out, l)
		bad = append(bad, errs...)
	}
	if len(bad) > 0 {
		log.Warn().
			Str("table", TableName).
			Int("cells", len(bad)).
			Str("first", bad[0].Error()).
			Msg("valores inválidos lidos como zero")
	}
	return out, nil
}

// ReplaceAll swaps the whole table inside one transaction: readers see
// either the old rows or the new ones.
func (r *ListingRepo) ReplaceAll(ctx context.Context, listings []domain.Listing) error {
	if err := checkRows(listings); err != nil {
		return &domain.WriteError{Rows: len(listings), Err: err}
	}
	db, err := r.conn(ctx)
	if err != nil {
		return &domain.ConnectivityError{Op: "connect", Err: err}
	}
	rows := make([]listingRow, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, fromDomain(l))
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&listingRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, batchSize).Error
	})
	if err != nil {
		return &domain.WriteError{Rows: len(listings), Err: err}
	}
	return nil
}

func checkRows(listings []domain.Listing) error {
	seen := make(map[string]struct{}, len(listings))
	for i, l := range listings {
		id := strings.TrimSpace(l.ListingID)
		if id == "" {
			return fmt.Errorf("row %d: empty listing id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("row %d: duplicate listing id %q", i, id)
		}
		seen[id] = struct{}{}
		if l.SalePrice.IsNegative() || l.ShippingCost.IsNegative() || l.StockQuantity < 0 || l.TotalSales < 0 {
			return fmt.Errorf("row %d (%s): negative numeric field", i, id)
		}
	}
	return nil
}

// toDomain maps a stored row; n is its 1-based position in the result and
// only labels the returned FormatErrors.
func (row listingRow) toDomain(n int) (domain.Listing, []domain.FormatError) {
	var bad []domain.FormatError
	note := func(column, raw string) {
		if raw != "" {
			bad = append(bad, domain.FormatError{Row: n, Field: column, Value: raw})
		}
	}
	note("id_conta", row.AccountID.Bad)
	note("preco_venda", row.SalePrice.Bad)
	note("custo_frete", row.ShippingCost.Bad)
	note("quantidade_estoque", row.StockQuantity.Bad)
	note("vendas_totais", row.TotalSales.Bad)
	note("data_criacao", row.CreatedAt.Bad)
	note("data_atualizacao", row.UpdatedAt.Bad)
	note("nota_descricao", row.DescriptionScore.Bad)
	note("nota_ficha_tecnica", row.SpecSheetScore.Bad)
	note("nota_fotos", row.PhotoScore.Bad)

	counter := func(column string, v looseInt) int {
		q, ok := v.quantity()
		if !ok {
			note(column, strconv.FormatInt(v.Int64, 10))
		}
		return q
	}

	return domain.Listing{
		ListingID:        row.ListingID,
		AccountID:        row.AccountID.Int64,
		SKU:              row.SKU.String,
		Title:            row.Title.String,
		SalePrice:        row.SalePrice.Decimal,
		Status:           lowerOr(row.Status, domain.DefaultStatus),
		ListingType:      lowerOr(row.ListingType, domain.DefaultListingType),
		ShippingCost:     row.ShippingCost.Decimal,
		StockQuantity:    counter("quantidade_estoque", row.StockQuantity),
		TotalSales:       counter("vendas_totais", row.TotalSales),
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
		DescriptionScore: row.DescriptionScore.Float64,
		SpecSheetScore:   row.SpecSheetScore.Float64,
		PhotoScore:       row.PhotoScore.Float64,
		CatalogStatus:    valueOr(row.CatalogStatus, domain.DefaultCatalogStatus),
		FlexStatus:       valueOr(row.FlexStatus, domain.DefaultFlexStatus),
	}, bad
}

func fromDomain(l domain.Listing) listingRow {
	return listingRow{
		ListingID:        strings.TrimSpace(l.ListingID),
		AccountID:        looseInt{Int64: l.AccountID, Valid: true},
		SKU:              sql.NullString{String: l.SKU, Valid: true},
		Title:            sql.NullString{String: l.Title, Valid: true},
		SalePrice:        looseAmount{Decimal: l.SalePrice, Valid: true},
		Status:           sql.NullString{String: l.Status, Valid: true},
		ListingType:      sql.NullString{String: l.ListingType, Valid: true},
		ShippingCost:     looseAmount{Decimal: l.ShippingCost, Valid: true},
		StockQuantity:    looseInt{Int64: int64(l.StockQuantity), Valid: true},
		TotalSales:       looseInt{Int64: int64(l.TotalSales), Valid: true},
		CreatedAt:        looseTime{Time: l.CreatedAt, Valid: !l.CreatedAt.IsZero()},
		UpdatedAt:        looseTime{Time: l.UpdatedAt, Valid: !l.UpdatedAt.IsZero()},
		DescriptionScore: looseFloat{Float64: l.DescriptionScore, Valid: true},
		SpecSheetScore:   looseFloat{Float64: l.SpecSheetScore, Valid: true},
		PhotoScore:       looseFloat{Float64: l.PhotoScore, Valid: true},
		CatalogStatus:    sql.NullString{String: l.CatalogStatus, Valid: true},
		FlexStatus:       sql.NullString{String: l.FlexStatus, Valid: true},
	}
}

func lowerOr(v sql.NullString, def string) string {
	s := strings.ToLower(strings.TrimSpace(v.String))
	if s == "" {
		return def
	}
	return s
}

func valueOr(v sql.NullString, def string) string {
	if strings.TrimSpace(v.String) == "" {
		return def
	}
	return v.String
}
