package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront-catalog/internal/domain"
)

// CatalogRepository defines the read access the catalog needs from the store
type CatalogRepository interface {
	FilterAndCount(ctx context.Context, brandID, typeID *int) (int, error)
	FilterPage(ctx context.Context, brandID, typeID *int, skip, take int) ([]domain.CatalogItem, error)
	ListBrands(ctx context.Context) ([]domain.CatalogBrand, error)
	ListTypes(ctx context.Context) ([]domain.CatalogType, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// filterClause builds the WHERE clause for the optional brand and type
// predicates. Placeholders start at $1.
func filterClause(brandID, typeID *int) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if brandID != nil {
		args = append(args, *brandID)
		conditions = append(conditions, fmt.Sprintf("i.catalog_brand_id = $%d", len(args)))
	}
	if typeID != nil {
		args = append(args, *typeID)
		conditions = append(conditions, fmt.Sprintf("i.catalog_type_id = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// FilterAndCount counts the items matching the optional filters
func (r *catalogRepository) FilterAndCount(ctx context.Context, brandID, typeID *int) (int, error) {
	whereClause, args := filterClause(brandID, typeID)
	query := fmt.Sprintf("SELECT COUNT(*) FROM catalog_items i %s", whereClause)

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, domain.DataUnavailable(err, "failed to count catalog items")
	}

	return total, nil
}

// FilterPage returns one window of the filtered items ordered by name, then id.
// Names compare bytewise so the order does not depend on the server locale.
func (r *catalogRepository) FilterPage(ctx context.Context, brandID, typeID *int, skip, take int) ([]domain.CatalogItem, error) {
	whereClause, args := filterClause(brandID, typeID)

	query := fmt.Sprintf(`
		SELECT i.id, i.name, i.description, i.price, i.picture_uri,
		       i.catalog_brand_id, i.catalog_type_id, b.brand, t.type
		FROM catalog_items i
		JOIN catalog_brands b ON b.id = i.catalog_brand_id
		JOIN catalog_types t ON t.id = i.catalog_type_id
		%s
		ORDER BY i.name COLLATE "C" ASC, i.id ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)+1, len(args)+2)

	args = append(args, take, skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.DataUnavailable(err, "failed to list catalog items")
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		var item domain.CatalogItem
		var pictureURI sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&pictureURI,
			&item.BrandID,
			&item.TypeID,
			&item.BrandName,
			&item.TypeName,
		)
		if err != nil {
			return nil, domain.DataUnavailable(err, "failed to scan catalog item")
		}
		item.PictureURI = pictureURI.String
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.DataUnavailable(err, "error iterating catalog items")
	}

	return items, nil
}

// ListBrands retrieves all brands ordered by name
func (r *catalogRepository) ListBrands(ctx context.Context) ([]domain.CatalogBrand, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, brand FROM catalog_brands ORDER BY brand COLLATE "C" ASC, id ASC`)
	if err != nil {
		return nil, domain.DataUnavailable(err, "failed to list catalog brands")
	}
	defer rows.Close()

	brands := []domain.CatalogBrand{}
	for rows.Next() {
		var brand domain.CatalogBrand
		if err := rows.Scan(&brand.ID, &brand.Brand); err != nil {
			return nil, domain.DataUnavailable(err, "failed to scan catalog brand")
		}
		brands = append(brands, brand)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.DataUnavailable(err, "error iterating catalog brands")
	}

	return brands, nil
}

// ListTypes retrieves all types ordered by name
func (r *catalogRepository) ListTypes(ctx context.Context) ([]domain.CatalogType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type FROM catalog_types ORDER BY type COLLATE "C" ASC, id ASC`)
	if err != nil {
		return nil, domain.DataUnavailable(err, "failed to list catalog types")
	}
	defer rows.Close()

	types := []domain.CatalogType{}
	for rows.Next() {
		var catalogType domain.CatalogType
		if err := rows.Scan(&catalogType.ID, &catalogType.Type); err != nil {
			return nil, domain.DataUnavailable(err, "failed to scan catalog type")
		}
		types = append(types, catalogType)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.DataUnavailable(err, "error iterating catalog types")
	}

	return types, nil
}
