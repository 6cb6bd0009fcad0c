// internal/infrastructure/database/postgres/product_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/shop-services/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository implements product.Repository on GORM
type ProductRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		db:  db,
		now: time.Now,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search translates the query clauses into one filtered statement, counts the
// whole filtered set, then loads the requested page
func (r *ProductRepository) Search(ctx context.Context, q product.Query) ([]product.Product, int64, error) {
	filtered := func() (*gorm.DB, error) {
		tx := r.db.WithContext(ctx).
			Model(&productRecord{}).
			Joins("JOIN brands ON brands.id = products.brand_id").
			Joins("JOIN categories ON categories.id = products.category_id")
		for _, c := range q.Clauses {
			var err error
			if tx, err = applyClause(tx, c); err != nil {
				return nil, err
			}
		}
		return tx, nil
	}

	countQuery, err := filtered()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	pageQuery, err := filtered()
	if err != nil {
		return nil, 0, err
	}

	pageQuery = withAssociations(pageQuery).Select("products.*")
	if q.Sort.Field != product.SortDefault {
		pageQuery = pageQuery.Order(orderBy(q.Sort))
	}

	var records []productRecord
	err = pageQuery.
		Order("products.created_at ASC").
		Order("products.id ASC").
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve products: %w", err)
	}

	products := make([]product.Product, len(records))
	for i := range records {
		products[i] = *records[i].toDomain()
	}
	return products, total, nil
}

func applyClause(tx *gorm.DB, c product.Clause) (*gorm.DB, error) {
	switch c := c.(type) {
	case product.NotDeletedClause:
		return tx.Where("products.is_deleted = ?", false), nil
	case product.SearchTermClause:
		pattern := "%" + likeEscaper.Replace(c.Term) + "%"
		return tx.Where(`(products.name LIKE ? ESCAPE '\' OR brands.name LIKE ? ESCAPE '\')`, pattern, pattern), nil
	case product.CategoryClause:
		return tx.Where("categories.name = ?", c.Name), nil
	case product.BrandClause:
		return tx.Where("brands.name = ?", c.Name), nil
	case product.MinPriceClause:
		return tx.Where("products.price >= ?", c.Amount), nil
	case product.MaxPriceClause:
		return tx.Where("products.price <= ?", c.Amount), nil
	case product.TagsClause:
		for _, name := range c.Names {
			tx = tx.Where("EXISTS (SELECT 1 FROM product_tags pt WHERE pt.product_id = products.id AND pt.name = ?)", name)
		}
		return tx, nil
	case product.AttributesClause:
		for key, value := range c.Pairs {
			tx = tx.Where("EXISTS (SELECT 1 FROM product_attributes pa WHERE pa.product_id = products.id AND pa.attr_key = ? AND pa.attr_value = ?)", key, value)
		}
		return tx, nil
	}
	return nil, fmt.Errorf("unsupported query clause %T", c)
}

func orderBy(s product.Sort) clause.OrderByColumn {
	var column string
	switch s.Field {
	case product.SortName:
		column = "products.name"
	case product.SortPrice:
		column = "products.price"
	case product.SortBrand:
		column = "brands.name"
	case product.SortCategory:
		column = "categories.name"
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column, Raw: true},
		Desc:   !s.Ascending,
	}
}

func withAssociations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Category").
		Preload("Brand").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Attributes", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var rec productRecord

	err := withAssociations(r.db.WithContext(ctx)).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return rec.toDomain(), nil
}

// Create stores the product with its tags and attributes, resolving category
// and brand by name
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	now := r.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolveReferences(tx, p); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(toProductRecord(p)).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return replaceOwned(tx, p)
	})
	return translateError(err)
}

// Update fully replaces the stored product, tags and attributes included
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	p.UpdatedAt = r.now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolveReferences(tx, p); err != nil {
			return err
		}

		rec := toProductRecord(p)
		result := tx.Model(&productRecord{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":        rec.Name,
			"description": rec.Description,
			"image_url":   rec.ImageURL,
			"price":       rec.Price,
			"category_id": rec.CategoryID,
			"brand_id":    rec.BrandID,
			"is_deleted":  rec.IsDeleted,
			"updated_at":  rec.UpdatedAt,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return product.ErrProductNotFound
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&productTagRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear product tags: %w", err)
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&productAttributeRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear product attributes: %w", err)
		}
		return replaceOwned(tx, p)
	})
	return translateError(err)
}

func replaceOwned(tx *gorm.DB, p *product.Product) error {
	if tags := tagRecords(p); len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return fmt.Errorf("failed to store product tags: %w", err)
		}
	}
	if attrs := attributeRecords(p); len(attrs) > 0 {
		if err := tx.Create(&attrs).Error; err != nil {
			return fmt.Errorf("failed to store product attributes: %w", err)
		}
	}
	return nil
}

// resolveReferences swaps the product's category and brand for the stored
// rows with the same name, creating them on first use. The insert is a no-op
// when a concurrent writer created the name first.
func resolveReferences(tx *gorm.DB, p *product.Product) error {
	if p.Category != nil {
		rec := categoryRecord{ID: p.Category.ID, Name: p.Category.Name}
		if err := insertIfAbsent(tx, &rec); err != nil {
			return fmt.Errorf("failed to resolve category %q: %w", p.Category.Name, err)
		}
		var stored categoryRecord
		if err := tx.Where("name = ?", p.Category.Name).First(&stored).Error; err != nil {
			return fmt.Errorf("failed to resolve category %q: %w", p.Category.Name, err)
		}
		p.Category = &product.Category{ID: stored.ID, Name: stored.Name}
	}
	if p.Brand != nil {
		rec := brandRecord{ID: p.Brand.ID, Name: p.Brand.Name}
		if err := insertIfAbsent(tx, &rec); err != nil {
			return fmt.Errorf("failed to resolve brand %q: %w", p.Brand.Name, err)
		}
		var stored brandRecord
		if err := tx.Where("name = ?", p.Brand.Name).First(&stored).Error; err != nil {
			return fmt.Errorf("failed to resolve brand %q: %w", p.Brand.Name, err)
		}
		p.Brand = &product.Brand{ID: stored.ID, Name: stored.Name}
	}
	return nil
}

func insertIfAbsent(tx *gorm.DB, rec any) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(rec).Error
}

func (r *ProductRepository) ListCategories(ctx context.Context) ([]product.Category, error) {
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	out := make([]product.Category, len(records))
	for i, rec := range records {
		out[i] = product.Category{ID: rec.ID, Name: rec.Name}
	}
	return out, nil
}

func (r *ProductRepository) ListBrands(ctx context.Context) ([]product.Brand, error) {
	var records []brandRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	out := make([]product.Brand, len(records))
	for i, rec := range records {
		out[i] = product.Brand{ID: rec.ID, Name: rec.Name}
	}
	return out, nil
}
