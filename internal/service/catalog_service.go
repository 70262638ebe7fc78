package service

import (
	"context"
	"math"

	"storefront-catalog/internal/domain"
	"storefront-catalog/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogService defines the browsing operations exposed to callers.
// Returned results may be shared between callers and must be treated as
// read-only.
type CatalogService interface {
	Query(ctx context.Context, req domain.PageRequest) (*domain.PageResult, error)
	ListBrands(ctx context.Context) ([]domain.FilterOption, error)
	ListTypes(ctx context.Context) ([]domain.FilterOption, error)
}

type catalogService struct {
	repo     repository.CatalogRepository
	options  *FilterOptionProvider
	composer *URIComposer
	logger   *zap.Logger
}

// NewCatalogService creates the uncached query engine
func NewCatalogService(repo repository.CatalogRepository, composer *URIComposer, logger *zap.Logger) CatalogService {
	return &catalogService{
		repo:     repo,
		options:  NewFilterOptionProvider(repo),
		composer: composer,
		logger:   logger,
	}
}

// Query reads one page of the filtered catalog. The count, the page and
// both option lists are fetched concurrently; any store failure fails the
// whole query and nothing partial is returned.
func (s *catalogService) Query(ctx context.Context, req domain.PageRequest) (*domain.PageResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		total  int
		items  []domain.CatalogItem
		brands []domain.FilterOption
		types  []domain.FilterOption
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.repo.FilterAndCount(gctx, req.BrandID, req.TypeID)
		return err
	})
	if req.PageIndex > math.MaxInt/req.PageSize {
		// No store can hold that many items, so the page is past the end
		items = []domain.CatalogItem{}
	} else {
		g.Go(func() (err error) {
			items, err = s.repo.FilterPage(gctx, req.BrandID, req.TypeID, req.Skip(), req.PageSize)
			return err
		})
	}
	g.Go(func() (err error) {
		brands, err = s.options.ListBrands(gctx, req.BrandID)
		return err
	})
	g.Go(func() (err error) {
		types, err = s.options.ListTypes(gctx, req.TypeID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Catalog query failed",
			zap.Int("page", req.PageIndex),
			zap.Int("page_size", req.PageSize),
			zap.Error(err),
		)
		return nil, err
	}

	pagination, err := NewPaginationInfo(total, req.PageSize, req.PageIndex)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.CatalogItem, len(items))
	for i, item := range items {
		item.PictureURI = s.composer.Compose(item.PictureURI)
		resolved[i] = item
	}

	return &domain.PageResult{
		Items:              resolved,
		Brands:             brands,
		Types:              types,
		BrandFilterApplied: copyID(req.BrandID),
		TypesFilterApplied: copyID(req.TypeID),
		PaginationInfo:     pagination,
	}, nil
}

// ListBrands returns the brand options with "All" selected
func (s *catalogService) ListBrands(ctx context.Context) ([]domain.FilterOption, error) {
	brands, err := s.options.ListBrands(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to list brands", zap.Error(err))
		return nil, err
	}
	return brands, nil
}

// ListTypes returns the type options with "All" selected
func (s *catalogService) ListTypes(ctx context.Context) ([]domain.FilterOption, error) {
	types, err := s.options.ListTypes(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to list types", zap.Error(err))
		return nil, err
	}
	return types, nil
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
