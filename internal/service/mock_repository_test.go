package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"storefront-catalog/internal/domain"

	"github.com/shopspring/decimal"
)

// Mock repository for testing
type mockCatalogRepository struct {
	items  []domain.CatalogItem
	brands []domain.CatalogBrand
	types  []domain.CatalogType
	err    error

	countCalls atomic.Int32
	pageCalls  atomic.Int32
}

// newMockCatalogRepository seeds n items spread over brands 1..3 and types 1..2
func newMockCatalogRepository(n int) *mockCatalogRepository {
	repo := &mockCatalogRepository{
		brands: []domain.CatalogBrand{{ID: 1, Brand: ".NET"}, {ID: 2, Brand: "Azure"}, {ID: 3, Brand: "Other"}},
		types:  []domain.CatalogType{{ID: 1, Type: "Mug"}, {ID: 2, Type: "T-Shirt"}},
	}
	for i := 1; i <= n; i++ {
		repo.items = append(repo.items, domain.CatalogItem{
			ID:          i,
			Name:        fmt.Sprintf("Item %03d", i),
			Description: fmt.Sprintf("Description %d", i),
			Price:       decimal.New(int64(100*i+99), -2),
			PictureURI:  fmt.Sprintf("images/products/%d.png", i),
			BrandID:     (i-1)%3 + 1,
			TypeID:      (i-1)%2 + 1,
		})
	}
	return repo
}

func (m *mockCatalogRepository) filter(brandID, typeID *int) []domain.CatalogItem {
	matched := []domain.CatalogItem{}
	for _, item := range m.items {
		if brandID != nil && item.BrandID != *brandID {
			continue
		}
		if typeID != nil && item.TypeID != *typeID {
			continue
		}
		matched = append(matched, item)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	return matched
}

func (m *mockCatalogRepository) FilterAndCount(ctx context.Context, brandID, typeID *int) (int, error) {
	m.countCalls.Add(1)
	if m.err != nil {
		return 0, m.err
	}
	return len(m.filter(brandID, typeID)), nil
}

func (m *mockCatalogRepository) FilterPage(ctx context.Context, brandID, typeID *int, skip, take int) ([]domain.CatalogItem, error) {
	m.pageCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.DataUnavailable(err, "failed to list catalog items")
	}
	if skip < 0 || take < 0 {
		return nil, domain.DataUnavailable(errors.New("OFFSET must not be negative"), "failed to list catalog items")
	}
	matched := m.filter(brandID, typeID)
	if skip >= len(matched) {
		return []domain.CatalogItem{}, nil
	}
	end := skip + take
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]domain.CatalogItem, end-skip)
	copy(page, matched[skip:end])
	return page, nil
}

func (m *mockCatalogRepository) ListBrands(ctx context.Context) ([]domain.CatalogBrand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.CatalogBrand(nil), m.brands...), nil
}

func (m *mockCatalogRepository) ListTypes(ctx context.Context) ([]domain.CatalogType, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.CatalogType(nil), m.types...), nil
}

var errStoreDown = domain.DataUnavailable(errors.New("connection refused"), "failed to count catalog items")

func intPtr(v int) *int {
	return &v
}
