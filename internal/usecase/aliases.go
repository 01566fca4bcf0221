package usecase

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FieldListingID        = "listing_id"
	FieldAccountID        = "account_id"
	FieldSKU              = "sku"
	FieldTitle            = "title"
	FieldSalePrice        = "sale_price"
	FieldStatus           = "status"
	FieldListingType      = "listing_type"
	FieldShippingCost     = "shipping_cost"
	FieldStockQuantity    = "stock_quantity"
	FieldTotalSales       = "total_sales"
	FieldCreatedAt        = "created_at"
	FieldUpdatedAt        = "updated_at"
	FieldDescriptionScore = "description_score"
	FieldSpecSheetScore   = "spec_sheet_score"
	FieldPhotoScore       = "photo_score"
	FieldCatalogStatus    = "catalog_status"
	FieldFlexStatus       = "flex_status"
)

// CanonicalFields in report order.
var CanonicalFields = []string{
	FieldListingID, FieldAccountID, FieldSKU, FieldTitle, FieldSalePrice,
	FieldStatus, FieldListingType, FieldShippingCost, FieldStockQuantity,
	FieldTotalSales, FieldCreatedAt, FieldUpdatedAt, FieldDescriptionScore,
	FieldSpecSheetScore, FieldPhotoScore, FieldCatalogStatus, FieldFlexStatus,
}

// Aliases lists, per canonical field, the accepted header names in priority order.
type Aliases map[string][]string

var defaultAliases = Aliases{
	FieldListingID:        {"ITEM_ID", "Item ID", "item_id", "ID", "id_anuncio", "# Anúncio"},
	FieldAccountID:        {"SELLER_ID", "Seller ID", "seller_id", "id_conta", "Conta"},
	FieldSKU:              {"SKU", "Sku", "sku", "SELLER_SKU", "seller_custom_field"},
	FieldTitle:            {"TITLE", "Title", "title", "Título", "titulo"},
	FieldSalePrice:        {"PRICE", "Price", "price", "Preço", "preco_venda"},
	FieldStatus:           {"STATUS", "Status", "status"},
	FieldListingType:      {"LISTING_TYPE", "Listing Type", "listing_type_id", "listing_type", "Tipo de anúncio", "tipo_anuncio"},
	FieldShippingCost:     {"SHIPPING_COST", "Shipping Cost", "shipping_cost", "Custo de envio", "custo_frete"},
	FieldStockQuantity:    {"AVAILABLE_QUANTITY", "Available Quantity", "available_quantity", "QUANTITY", "Estoque", "quantidade_estoque"},
	FieldTotalSales:       {"SOLD_QUANTITY", "Sold Quantity", "sold_quantity", "Vendas", "vendas_totais"},
	FieldCreatedAt:        {"DATE_CREATED", "Date Created", "date_created", "Data de criação", "data_criacao"},
	FieldUpdatedAt:        {"LAST_UPDATED", "Last Updated", "last_updated", "Última atualização", "data_atualizacao"},
	FieldDescriptionScore: {"DESCRIPTION_SCORE", "Description Score", "description_score", "nota_descricao"},
	FieldSpecSheetScore:   {"TECHNICAL_SPECS_SCORE", "Technical Specs Score", "spec_sheet_score", "nota_ficha_tecnica"},
	FieldPhotoScore:       {"PICTURES_SCORE", "Pictures Score", "photo_score", "nota_fotos"},
	FieldCatalogStatus:    {"CATALOG_LISTING", "Catalog Status", "catalog_status", "status_catalogo"},
	FieldFlexStatus:       {"FLEX", "Flex Status", "flex_status", "status_flex"},
}

func DefaultAliases() Aliases {
	out := make(Aliases, len(defaultAliases))
	for k, v := range defaultAliases {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Extend appends extra aliases after the existing ones, skipping repeats.
func (a Aliases) Extend(extra Aliases) error {
	for field, names := range extra {
		if _, ok := a[field]; !ok {
			return fmt.Errorf("aliases: unknown field %q", field)
		}
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n == "" || containsString(a[field], n) {
				continue
			}
			a[field] = append(a[field], n)
		}
	}
	return nil
}

// LoadAliases returns the defaults extended with the YAML file at path.
// An empty path yields the defaults.
func LoadAliases(path string) (Aliases, error) {
	aliases := DefaultAliases()
	if strings.TrimSpace(path) == "" {
		return aliases, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("aliases: read %s: %w", path, err)
	}
	var extra Aliases
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("aliases: parse %s: %w", path, err)
	}
	if err := aliases.Extend(extra); err != nil {
		return nil, err
	}
	return aliases, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
