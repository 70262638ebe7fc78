package service

import (
	"context"
	"strconv"

	"storefront-catalog/internal/domain"
	"storefront-catalog/internal/repository"
)

// AllOptionText labels the synthetic option that clears a filter
const AllOptionText = "All"

// FilterOptionProvider builds the brand and type selection lists
type FilterOptionProvider struct {
	repo repository.CatalogRepository
}

// NewFilterOptionProvider creates a provider over the catalog store
func NewFilterOptionProvider(repo repository.CatalogRepository) *FilterOptionProvider {
	return &FilterOptionProvider{repo: repo}
}

// ListBrands returns "All" followed by every brand, marking selectedID
func (p *FilterOptionProvider) ListBrands(ctx context.Context, selectedID *int) ([]domain.FilterOption, error) {
	brands, err := p.repo.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	return BrandOptions(brands, selectedID), nil
}

// ListTypes returns "All" followed by every type, marking selectedID
func (p *FilterOptionProvider) ListTypes(ctx context.Context, selectedID *int) ([]domain.FilterOption, error) {
	types, err := p.repo.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	return TypeOptions(types, selectedID), nil
}

func BrandOptions(brands []domain.CatalogBrand, selectedID *int) []domain.FilterOption {
	options := make([]domain.FilterOption, 0, len(brands)+1)
	options = append(options, allOption(selectedID))
	for _, b := range brands {
		options = append(options, option(b.ID, b.Brand, selectedID))
	}
	return options
}

func TypeOptions(types []domain.CatalogType, selectedID *int) []domain.FilterOption {
	options := make([]domain.FilterOption, 0, len(types)+1)
	options = append(options, allOption(selectedID))
	for _, t := range types {
		options = append(options, option(t.ID, t.Type, selectedID))
	}
	return options
}

func allOption(selectedID *int) domain.FilterOption {
	return domain.FilterOption{Value: "", Text: AllOptionText, Selected: selectedID == nil}
}

func option(id int, text string, selectedID *int) domain.FilterOption {
	return domain.FilterOption{
		Value:    strconv.Itoa(id),
		Text:     text,
		Selected: selectedID != nil && *selectedID == id,
	}
}
