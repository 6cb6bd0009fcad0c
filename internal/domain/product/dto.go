// internal/domain/product/dto.go
package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SearchRequest represents product list query parameters
type SearchRequest struct {
	SearchTerm string            `form:"search" binding:"max=100"`
	Category   string            `form:"category" binding:"max=100"`
	Brand      string            `form:"brand" binding:"max=100"`
	MinPrice   *decimal.Decimal  `form:"-"`
	MaxPrice   *decimal.Decimal  `form:"-"`
	SortBy     string            `form:"sortBy"`
	Ascending  *bool             `form:"ascending"`
	Page       int               `form:"page"`
	PageSize   int               `form:"pageSize"`
	Tags       []string          `form:"tags"`
	Attributes map[string]string `form:"-"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Description string            `json:"description" binding:"required,max=500"`
	ImageURL    string            `json:"image_url" binding:"required,url"`
	Price       decimal.Decimal   `json:"price"`
	Category    string            `json:"category" binding:"required,max=100"`
	Brand       string            `json:"brand" binding:"required,max=100"`
	Tags        []string          `json:"tags" binding:"omitempty,dive,max=50"`
	Attributes  map[string]string `json:"attributes" binding:"omitempty,dive,keys,required,max=100,endkeys,max=500"`
}

// UpdateRequest represents product replacement data. Updates are full
// replacements, not patches.
type UpdateRequest CreateRequest

// Response represents a product on the wire
type Response struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image_url"`
	Price       decimal.Decimal   `json:"price"`
	Category    string            `json:"category"`
	Brand       string            `json:"brand"`
	Tags        []string          `json:"tags"`
	Attributes  map[string]string `json:"attributes"`
}

// ToResponse maps the entity to its wire representation
func ToResponse(p *Product) Response {
	return Response{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		Category:    categoryName(p),
		Brand:       brandName(p),
		Tags:        p.TagNames(),
		Attributes:  p.AttributeMap(),
	}
}

func (r *CreateRequest) draft() Draft {
	return Draft{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Category:    r.Category,
		Brand:       r.Brand,
		Tags:        r.Tags,
		Attributes:  r.Attributes,
	}
}
