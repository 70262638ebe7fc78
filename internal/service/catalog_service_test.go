package service

import (
	"context"
	"math"
	"testing"

	"storefront-catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "https://cdn.example.com"

func newTestCatalogService(repo *mockCatalogRepository) CatalogService {
	return NewCatalogService(repo, NewURIComposer(testBaseURL), zap.NewNop())
}

func TestCatalogService_FirstPage(t *testing.T) {
	svc := newTestCatalogService(newMockCatalogRepository(25))

	result, err := svc.Query(context.Background(), domain.PageRequest{PageIndex: 0, PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, result.Items, 10)
	assert.Equal(t, 25, result.PaginationInfo.TotalItems)
	assert.Equal(t, 3, result.PaginationInfo.TotalPages)
	assert.False(t, result.PaginationInfo.HasPrevious())
	assert.True(t, result.PaginationInfo.HasNext())
	assert.Nil(t, result.BrandFilterApplied)
	assert.Nil(t, result.TypesFilterApplied)
}

func TestCatalogService_LastPage(t *testing.T) {
	svc := newTestCatalogService(newMockCatalogRepository(25))

	result, err := svc.Query(context.Background(), domain.PageRequest{PageIndex: 2, PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, result.Items, 5)
	assert.True(t, result.PaginationInfo.HasPrevious())
	assert.False(t, result.PaginationInfo.HasNext())
}

func TestCatalogService_UnknownBrandIsEmptyPage(t *testing.T) {
	svc := newTestCatalogService(newMockCatalogRepository(25))

	result, err := svc.Query(context.Background(), domain.PageRequest{PageIndex: 0, PageSize: 10, BrandID: intPtr(999)})
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Items)
	assert.Equal(t, 0, result.PaginationInfo.TotalItems)
	assert.Equal(t, 0, result.PaginationInfo.TotalPages)
	assert.Equal(t, intPtr(999), result.BrandFilterApplied)
	for _, o := range result.Brands {
		assert.False(t, o.Selected, "option %q", o.Text)
	}
}

func TestCatalogService_OutOfRangePageKeepsTotals(t *testing.T) {
	svc := newTestCatalogService(newMockCatalogRepository(25))

	result, err := svc.Query(context.Background(), domain.PageRequest{PageIndex: 7, PageSize: 10})
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, 25, result.PaginationInfo.TotalItems)
	assert.Equal(t, 3, result.PaginationInfo.TotalPages)
	assert.Equal(t, 7, result.PaginationInfo.ActualPage)
}

func TestCatalogService_HugePageIndexIsEmptyPage(t *testing.T) {
	tests := []struct {
		name string
		req  domain.PageRequest
	}{
		{name: "skip overflows", req: domain.PageRequest{PageIndex: math.MaxInt/5, PageSize: 10}},
		{name: "max page index", req: domain.PageRequest{PageIndex: math.MaxInt, PageSize: 1}},
		{name: "max page size", req: domain.PageRequest{PageIndex: 2, PageSize: math.MaxInt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestCatalogService(newMockCatalogRepository(25))

			result, err := svc.Query(context.Background(), tt.req)
			require.NoError(t, err)

			assert.NotNil(t, result.Items)
			assert.Empty(t, result.Items)
			assert.Equal(t, 25, result.PaginationInfo.TotalItems)
			assert.Equal(t, tt.req.PageIndex, result.PaginationInfo.ActualPage)
			assert.True(t, result.PaginationInfo.HasPrevious())
			assert.False(t, result.PaginationInfo.HasNext())
		})
	}
}

func TestCatalogService_LargestSafePageQueriesStore(t *testing.T) {
	repo := newMockCatalogRepository(25)
	svc := newTestCatalogService(repo)

	result, err := svc.Query(context.Background(), domain.PageRequest{PageIndex: math.MaxInt / 10, PageSize: 10})
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, int32(1), repo.pageCalls.Load())
}

func TestCatalogService_FiltersAreAnded(t *testing.T) {
	repo := newMockCatalogRepository(25)
	svc := newTestCatalogService(repo)

	result, err := svc.Query(context.Background(), domain.PageRequest{PageSize: 50, BrandID: intPtr(2), TypeID: intPtr(1)})
	require.NoError(t, err)

	require.NotEmpty(t, result.Items)
	for _, item := range result.Items {
		assert.Equal(t, 2, item.BrandID)
		assert.Equal(t, 1, item.TypeID)
	}
	assert.Equal(t, len(repo.filter(intPtr(2), intPtr(1))), result.PaginationInfo.TotalItems)

	assert.True(t, result.Brands[2].Selected, "brand 2 should be selected")
	assert.False(t, result.Brands[0].Selected, "All should not be selected")
	assert.True(t, result.Types[1].Selected, "type 1 should be selected")
}

func TestCatalogService_ComposesPictureURIs(t *testing.T) {
	svc := newTestCatalogService(newMockCatalogRepository(3))

	result, err := svc.Query(context.Background(), domain.PageRequest{PageSize: 10})
	require.NoError(t, err)

	for _, item := range result.Items {
		assert.Equal(t, ComposeURI(testBaseURL, item.PictureURI), item.PictureURI)
		assert.Contains(t, item.PictureURI, testBaseURL+"/images/products/")
	}
}

func TestCatalogService_PagesNeitherSkipNorDuplicate(t *testing.T) {
	repo := newMockCatalogRepository(23)
	svc := newTestCatalogService(repo)

	seen := map[int]bool{}
	for page := 0; page < 5; page++ {
		result, err := svc.Query(context.Background(), domain.PageRequest{PageIndex: page, PageSize: 5})
		require.NoError(t, err)
		for _, item := range result.Items {
			assert.False(t, seen[item.ID], "item %d returned twice", item.ID)
			seen[item.ID] = true
		}
	}
	assert.Len(t, seen, 23)
}

func TestCatalogService_RepeatedQueriesAreIdentical(t *testing.T) {
	svc := newTestCatalogService(newMockCatalogRepository(25))
	req := domain.PageRequest{PageIndex: 1, PageSize: 7, TypeID: intPtr(2)}

	first, err := svc.Query(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Query(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCatalogService_RejectsInvalidRequestBeforeStore(t *testing.T) {
	repo := newMockCatalogRepository(25)
	svc := newTestCatalogService(repo)

	for _, req := range []domain.PageRequest{{PageSize: 0}, {PageSize: -5}, {PageIndex: -1, PageSize: 10}} {
		_, err := svc.Query(context.Background(), req)
		require.Error(t, err)
		assert.True(t, domain.IsInvalidArgument(err))
	}
	assert.Zero(t, repo.countCalls.Load())
	assert.Zero(t, repo.pageCalls.Load())
}

func TestCatalogService_StoreFailureIsDataUnavailable(t *testing.T) {
	repo := newMockCatalogRepository(25)
	repo.err = errStoreDown
	svc := newTestCatalogService(repo)

	result, err := svc.Query(context.Background(), domain.PageRequest{PageSize: 10})
	assert.Nil(t, result)
	require.ErrorIs(t, err, errStoreDown)
	assert.True(t, domain.IsDataUnavailable(err))

	_, err = svc.ListBrands(context.Background())
	assert.True(t, domain.IsDataUnavailable(err))
	_, err = svc.ListTypes(context.Background())
	assert.True(t, domain.IsDataUnavailable(err))
}

func TestCatalogService_ListsSelectAll(t *testing.T) {
	svc := newTestCatalogService(newMockCatalogRepository(1))

	brands, err := svc.ListBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 4)
	assert.Equal(t, domain.FilterOption{Value: "", Text: AllOptionText, Selected: true}, brands[0])

	types, err := svc.ListTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, "T-Shirt", types[2].Text)
	assert.Equal(t, "2", types[2].Value)
}
