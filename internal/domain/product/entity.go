// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrPriceNotPositive = errors.New("price must be greater than zero")
	ErrCategoryRequired = errors.New("category is required")
	ErrBrandRequired    = errors.New("brand is required")
	ErrProductNotFound  = errors.New("product not found")
)

// Product represents the product entity
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	Category    *Category
	Brand       *Brand
	Tags        []Tag
	Attributes  []Attribute
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category represents product categories. Many products share one category.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Brand represents product brands. Many products share one brand.
type Brand struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Tag is an owned label; names are unique per product
type Tag struct {
	Name string
}

// Attribute is an owned key/value pair; keys are unique per product
type Attribute struct {
	Key   string
	Value string
}

// Draft carries the mutable state of a product
type Draft struct {
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	Category    string
	Brand       string
	Tags        []string
	Attributes  map[string]string
}

// NewCategory validates and builds a category
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryRequired
	}
	return &Category{ID: uuid.New(), Name: name}, nil
}

// NewBrand validates and builds a brand
func NewBrand(name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBrandRequired
	}
	return &Brand{ID: uuid.New(), Name: name}, nil
}

// NewProduct validates the draft and builds a product with a fresh identity
func NewProduct(d Draft) (*Product, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !d.Price.IsPositive() {
		return nil, ErrPriceNotPositive
	}

	category, err := NewCategory(d.Category)
	if err != nil {
		return nil, err
	}
	brand, err := NewBrand(d.Brand)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(d.Description),
		ImageURL:    strings.TrimSpace(d.ImageURL),
		Price:       d.Price,
		Category:    category,
		Brand:       brand,
		Tags:        []Tag{},
		Attributes:  []Attribute{},
	}

	for _, t := range d.Tags {
		p.AddTag(t)
	}
	for _, key := range sortedKeys(d.Attributes) {
		p.AddAttribute(key, d.Attributes[key])
	}

	return p, nil
}

// AddTag adds a tag unless one with the same name exists. Blank names are ignored.
func (p *Product) AddTag(name string) {
	name = strings.TrimSpace(name)
	if name == "" || p.HasTag(name) {
		return
	}
	p.Tags = append(p.Tags, Tag{Name: name})
}

// RemoveTag drops the named tag
func (p *Product) RemoveTag(name string) {
	for i, t := range p.Tags {
		if t.Name == name {
			p.Tags = append(p.Tags[:i], p.Tags[i+1:]...)
			return
		}
	}
}

// HasTag reports whether the product carries the tag
func (p *Product) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// AddAttribute sets key to value, replacing an existing value for key
func (p *Product) AddAttribute(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	for i := range p.Attributes {
		if p.Attributes[i].Key == key {
			p.Attributes[i].Value = value
			return
		}
	}
	p.Attributes = append(p.Attributes, Attribute{Key: key, Value: value})
}

// Attribute returns the value for key
func (p *Product) Attribute(key string) (string, bool) {
	for _, a := range p.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// TagNames lists tag names in insertion order
func (p *Product) TagNames() []string {
	names := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		names[i] = t.Name
	}
	return names
}

// AttributeMap returns attributes keyed by name
func (p *Product) AttributeMap() map[string]string {
	attrs := make(map[string]string, len(p.Attributes))
	for _, a := range p.Attributes {
		attrs[a.Key] = a.Value
	}
	return attrs
}

// Replace overwrites the mutable state with next, keeping identity,
// creation time and the soft-delete flag
func (p *Product) Replace(next *Product) {
	p.Name = next.Name
	p.Description = next.Description
	p.ImageURL = next.ImageURL
	p.Price = next.Price
	p.Category = next.Category
	p.Brand = next.Brand
	p.Tags = next.Tags
	p.Attributes = next.Attributes
}

// MarkDeleted soft-deletes the product
func (p *Product) MarkDeleted() {
	p.IsDeleted = true
}
