// internal/infrastructure/database/postgres/models.go
package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/shop-services/internal/domain/product"
)

type categoryRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;size:100;uniqueIndex:idx_categories_name"`
	CreatedAt time.Time
}

func (categoryRecord) TableName() string { return "categories" }

type brandRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;size:100;uniqueIndex:idx_brands_name"`
	CreatedAt time.Time
}

func (brandRecord) TableName() string { return "brands" }

type productRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"not null;size:100"`
	Description string          `gorm:"not null;size:500"`
	ImageURL    string          `gorm:"not null;size:2048"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BrandID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	IsDeleted   bool            `gorm:"not null;default:false;index"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`

	// Relationships
	Category   *categoryRecord          `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Brand      *brandRecord             `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Tags       []productTagRecord       `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Attributes []productAttributeRecord `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (productRecord) TableName() string { return "products" }

type productTagRecord struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_tags_product_name"`
	Name      string    `gorm:"not null;size:50;uniqueIndex:idx_product_tags_product_name;index"`
	Position  int       `gorm:"not null;default:0"`
}

func (productTagRecord) TableName() string { return "product_tags" }

type productAttributeRecord struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_attributes_product_key"`
	Key       string    `gorm:"column:attr_key;not null;size:100;uniqueIndex:idx_product_attributes_product_key"`
	Value     string    `gorm:"column:attr_value;not null;size:500"`
	Position  int       `gorm:"not null;default:0"`
}

func (productAttributeRecord) TableName() string { return "product_attributes" }

func toProductRecord(p *product.Product) *productRecord {
	rec := &productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		IsDeleted:   p.IsDeleted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		rec.CategoryID = p.Category.ID
	}
	if p.Brand != nil {
		rec.BrandID = p.Brand.ID
	}
	return rec
}

func tagRecords(p *product.Product) []productTagRecord {
	out := make([]productTagRecord, len(p.Tags))
	for i, t := range p.Tags {
		out[i] = productTagRecord{ProductID: p.ID, Name: t.Name, Position: i}
	}
	return out
}

func attributeRecords(p *product.Product) []productAttributeRecord {
	out := make([]productAttributeRecord, len(p.Attributes))
	for i, a := range p.Attributes {
		out[i] = productAttributeRecord{ProductID: p.ID, Key: a.Key, Value: a.Value, Position: i}
	}
	return out
}

func (r *productRecord) toDomain() *product.Product {
	p := &product.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Tags:        make([]product.Tag, 0, len(r.Tags)),
		Attributes:  make([]product.Attribute, 0, len(r.Attributes)),
		IsDeleted:   r.IsDeleted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Category != nil {
		p.Category = &product.Category{ID: r.Category.ID, Name: r.Category.Name}
	}
	if r.Brand != nil {
		p.Brand = &product.Brand{ID: r.Brand.ID, Name: r.Brand.Name}
	}
	for _, t := range r.Tags {
		p.Tags = append(p.Tags, product.Tag{Name: t.Name})
	}
	for _, a := range r.Attributes {
		p.Attributes = append(p.Attributes, product.Attribute{Key: a.Key, Value: a.Value})
	}
	return p
}
