package transport

import (
	"net/http"
	"net/url"
	"strconv"

	"storefront-catalog/internal/config"
	"storefront-catalog/internal/domain"
	"storefront-catalog/internal/middleware"
	"storefront-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogQuery holds the parsed browsing query parameters
type CatalogQuery struct {
	Page     int  `query:"page" validate:"gte=0"`
	PageSize int  `query:"pageSize" validate:"gte=1"`
	BrandID  *int `query:"brandFilterApplied" validate:"omitempty"`
	TypeID   *int `query:"typesFilterApplied" validate:"omitempty"`
}

// CatalogItemResponse represents a catalog item in API responses
type CatalogItemResponse struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	PictureURI       string          `json:"picture_uri"`
	CatalogTypeID    int             `json:"catalog_type_id"`
	CatalogBrandID   int             `json:"catalog_brand_id"`
	CatalogTypeName  string          `json:"catalog_type_name,omitempty"`
	CatalogBrandName string          `json:"catalog_brand_name,omitempty"`
}

// PaginationResponse represents page metadata in API responses
type PaginationResponse struct {
	ActualPage   int    `json:"actual_page"`
	ItemsPerPage int    `json:"items_per_page"`
	TotalItems   int    `json:"total_items"`
	TotalPages   int    `json:"total_pages"`
	Previous     string `json:"previous"`
	Next         string `json:"next"`
	HasPrevious  bool   `json:"has_previous"`
	HasNext      bool   `json:"has_next"`
}

// CatalogIndexResponse represents one page of the catalog
type CatalogIndexResponse struct {
	CatalogItems       []CatalogItemResponse `json:"catalog_items"`
	Brands             []domain.FilterOption `json:"brands"`
	Types              []domain.FilterOption `json:"types"`
	BrandFilterApplied *int                  `json:"brand_filter_applied"`
	TypesFilterApplied *int                  `json:"types_filter_applied"`
	PaginationInfo     PaginationResponse    `json:"pagination_info"`
}

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	catalogService service.CatalogService
	settings       config.CatalogConfig
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, settings config.CatalogConfig, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		settings:       settings,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Use(middlewares...)
		r.Get("/", h.GetCatalogItems)
		r.Get("/brands", h.GetBrands)
		r.Get("/types", h.GetTypes)
	})
}

// GetCatalogItems handles a paged, filtered catalog query
func (h *CatalogHandler) GetCatalogItems(w http.ResponseWriter, r *http.Request) {
	query, validationErrors := h.parseQuery(r.URL.Query())
	if len(validationErrors) > 0 {
		h.logger.Debug("Catalog query validation failed", zap.Any("errors", validationErrors))
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	result, err := h.catalogService.Query(r.Context(), domain.PageRequest{
		PageIndex: query.Page,
		PageSize:  query.PageSize,
		BrandID:   query.BrandID,
		TypeID:    query.TypeID,
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCatalogIndexResponse(result, r.URL))
}

// GetBrands handles listing the brand filter options
func (h *CatalogHandler) GetBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogService.ListBrands(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brands)
}

// GetTypes handles listing the type filter options
func (h *CatalogHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalogService.ListTypes(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, types)
}

func (h *CatalogHandler) parseQuery(values url.Values) (CatalogQuery, []middleware.ValidationError) {
	query := CatalogQuery{PageSize: h.settings.PageSize}
	var errs []middleware.ValidationError

	parse := func(name string, target **int) {
		raw := values.Get(name)
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, middleware.ValidationError{Field: name, Message: "Value must be an integer"})
			return
		}
		*target = &v
	}

	var page, pageSize *int
	parse("page", &page)
	parse("pageSize", &pageSize)
	parse("brandFilterApplied", &query.BrandID)
	parse("typesFilterApplied", &query.TypeID)

	if page != nil {
		query.Page = *page
	}
	if pageSize != nil {
		query.PageSize = *pageSize
	}

	if len(errs) > 0 {
		return query, errs
	}

	if err := middleware.ValidateRequest(query); err != nil {
		errs = middleware.FormatValidationErrors(err)
	}
	if query.PageSize > h.settings.MaxPageSize {
		errs = append(errs, middleware.ValidationError{
			Field:   "pageSize",
			Message: "Value must be less than or equal to " + strconv.Itoa(h.settings.MaxPageSize),
		})
	}

	return query, errs
}

func toCatalogIndexResponse(result *domain.PageResult, requestURL *url.URL) CatalogIndexResponse {
	items := make([]CatalogItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, CatalogItemResponse{
			ID:               item.ID,
			Name:             item.Name,
			Description:      item.Description,
			Price:            item.Price,
			PictureURI:       item.PictureURI,
			CatalogTypeID:    item.TypeID,
			CatalogBrandID:   item.BrandID,
			CatalogTypeName:  item.TypeName,
			CatalogBrandName: item.BrandName,
		})
	}

	info := result.PaginationInfo
	pagination := PaginationResponse{
		ActualPage:   info.ActualPage,
		ItemsPerPage: info.ItemsPerPage,
		TotalItems:   info.TotalItems,
		TotalPages:   info.TotalPages,
		HasPrevious:  info.HasPrevious(),
		HasNext:      info.HasNext(),
	}
	if pagination.HasPrevious {
		pagination.Previous = pageLink(requestURL, info.ActualPage-1)
	}
	if pagination.HasNext {
		pagination.Next = pageLink(requestURL, info.ActualPage+1)
	}

	return CatalogIndexResponse{
		CatalogItems:       items,
		Brands:             result.Brands,
		Types:              result.Types,
		BrandFilterApplied: result.BrandFilterApplied,
		TypesFilterApplied: result.TypesFilterApplied,
		PaginationInfo:     pagination,
	}
}

// pageLink returns the request path and query with page replaced
func pageLink(requestURL *url.URL, page int) string {
	values := requestURL.Query()
	values.Set("page", strconv.Itoa(page))
	return requestURL.Path + "?" + values.Encode()
}
