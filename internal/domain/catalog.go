package domain

import (
	"github.com/shopspring/decimal"
)

// CatalogItem represents a purchasable item in the catalog
type CatalogItem struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	PictureURI  string          `json:"picture_uri" db:"picture_uri"`
	BrandID     int             `json:"catalog_brand_id" db:"catalog_brand_id"`
	TypeID      int             `json:"catalog_type_id" db:"catalog_type_id"`
	BrandName   string          `json:"catalog_brand_name,omitempty" db:"brand"`
	TypeName    string          `json:"catalog_type_name,omitempty" db:"type"`
}

// CatalogBrand represents an item brand
type CatalogBrand struct {
	ID    int    `json:"id" db:"id"`
	Brand string `json:"brand" db:"brand"`
}

// CatalogType represents an item type
type CatalogType struct {
	ID   int    `json:"id" db:"id"`
	Type string `json:"type" db:"type"`
}

// FilterOption is one entry of a brand or type selection list
type FilterOption struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// PageRequest selects a page of the catalog. A nil filter means "no filter".
type PageRequest struct {
	PageIndex int
	PageSize  int
	BrandID   *int
	TypeID    *int
}

// Validate rejects requests that must never reach the store.
func (r PageRequest) Validate() error {
	if r.PageSize <= 0 {
		return InvalidArgumentf("page size must be positive, got %d", r.PageSize)
	}
	if r.PageIndex < 0 {
		return InvalidArgumentf("page index must not be negative, got %d", r.PageIndex)
	}
	return nil
}

// Skip returns the number of eligible items before the requested page.
func (r PageRequest) Skip() int {
	return r.PageIndex * r.PageSize
}

// PaginationInfo describes where a page sits within the eligible set
type PaginationInfo struct {
	ActualPage   int    `json:"actual_page"`
	ItemsPerPage int    `json:"items_per_page"`
	TotalItems   int    `json:"total_items"`
	TotalPages   int    `json:"total_pages"`
	Previous     string `json:"previous"`
	Next         string `json:"next"`
}

// HasPrevious reports whether a page exists before the actual one.
func (p PaginationInfo) HasPrevious() bool {
	return p.ActualPage > 0
}

// HasNext reports whether a page exists after the actual one.
func (p PaginationInfo) HasNext() bool {
	return p.ActualPage < p.TotalPages-1
}

// PageResult is a fully assembled catalog page
type PageResult struct {
	Items              []CatalogItem  `json:"catalog_items"`
	Brands             []FilterOption `json:"brands"`
	Types              []FilterOption `json:"types"`
	BrandFilterApplied *int           `json:"brand_filter_applied"`
	TypesFilterApplied *int           `json:"types_filter_applied"`
	PaginationInfo     PaginationInfo `json:"pagination_info"`
}
