package service

import (
	"storefront-catalog/internal/domain"
)

// NewPaginationInfo computes page metadata for a page of the eligible set.
// Navigation tokens are left empty for the caller to fill.
func NewPaginationInfo(totalItems, itemsPerPage, actualPage int) (domain.PaginationInfo, error) {
	if itemsPerPage <= 0 {
		return domain.PaginationInfo{}, domain.InvalidArgumentf("items per page must be positive, got %d", itemsPerPage)
	}
	if totalItems < 0 {
		return domain.PaginationInfo{}, domain.InvalidArgumentf("total items must not be negative, got %d", totalItems)
	}
	if actualPage < 0 {
		return domain.PaginationInfo{}, domain.InvalidArgumentf("page must not be negative, got %d", actualPage)
	}

	return domain.PaginationInfo{
		ActualPage:   actualPage,
		ItemsPerPage: itemsPerPage,
		TotalItems:   totalItems,
		TotalPages:   totalPages(totalItems, itemsPerPage),
	}, nil
}

// totalPages is ceil(totalItems/itemsPerPage) without overflowing on
// large page sizes
func totalPages(totalItems, itemsPerPage int) int {
	pages := totalItems / itemsPerPage
	if totalItems%itemsPerPage != 0 {
		pages++
	}
	return pages
}
