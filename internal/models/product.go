package models

import "time"

// PriceTier enumerates the three sale price tiers of a product.
type PriceTier string

const (
	TierNormal    PriceTier = "normal"
	TierWholesale PriceTier = "wholesale"
	TierResale    PriceTier = "resale"
)

// Valid reports whether the tier is one of the known tiers.
func (t PriceTier) Valid() bool {
	switch t {
	case TierNormal, TierWholesale, TierResale:
		return true
	}
	return false
}

// Product represents a catalog product with its three sale price tiers,
// the margins derived from them, and its stock levels.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID                 int64     `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	CostPrice          float64   `db:"cost_price" json:"costPrice"`
	SalePriceNormal    float64   `db:"sale_price_normal" json:"salePriceNormal"`
	SalePriceWholesale float64   `db:"sale_price_wholesale" json:"salePriceWholesale"`
	SalePriceResale    float64   `db:"sale_price_resale" json:"salePriceResale"`
	MarginNormal       float64   `db:"margin_normal" json:"marginNormal"`
	MarginWholesale    float64   `db:"margin_wholesale" json:"marginWholesale"`
	MarginResale       float64   `db:"margin_resale" json:"marginResale"`
	StockCurrent       int       `db:"stock_current" json:"stockCurrent"`
	StockMin           int       `db:"stock_min" json:"stockMin"`
	StockMax           int       `db:"stock_max" json:"stockMax"`
	BrandID            *int64    `db:"brand_id" json:"brandId,omitempty"`
	CategoryID         *int64    `db:"category_id" json:"categoryId,omitempty"`
	Available          bool      `db:"available" json:"available"`
	CreatedAt          time.Time `db:"created_at" json:"-"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// SalePrice returns the sale price for the given tier.
func (p *Product) SalePrice(tier PriceTier) float64 {
	switch tier {
	case TierWholesale:
		return p.SalePriceWholesale
	case TierResale:
		return p.SalePriceResale
	default:
		return p.SalePriceNormal
	}
}

// ProductRow is a product listing row enriched with the brand and category
// names from the joined lookup tables.
type ProductRow struct {
	Product
	BrandName    *string `db:"brand_name" json:"brandName,omitempty"`
	CategoryName *string `db:"category_name" json:"categoryName,omitempty"`
}

// TopSellingRow aggregates invoice lines per product for the best-seller report.
type TopSellingRow struct {
	ProductID int64   `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	UnitsSold int64   `db:"units_sold" json:"unitsSold"`
	Revenue   float64 `db:"revenue" json:"revenue"`
}
