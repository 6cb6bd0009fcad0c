// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-services/internal/pkg/errs"
)

// Prices are stored as numeric(12,2)
const priceScale = 2

var maxPrice = decimal.RequireFromString("9999999999.99")

// MutationResult is the outcome of an update or delete
type MutationResult int

const (
	MutationOK MutationResult = iota
	MutationNotFound
	MutationAlreadyDeleted
)

func (r MutationResult) String() string {
	switch r {
	case MutationOK:
		return "ok"
	case MutationNotFound:
		return "not_found"
	case MutationAlreadyDeleted:
		return "already_deleted"
	}
	return "unknown"
}

// Service handles product business logic
type Service struct {
	repo   Repository
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(repo Repository, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Search retrieves products with filtering, sorting and pagination
func (s *Service) Search(ctx context.Context, req *SearchRequest) (*Page[Response], error) {
	field, err := ParseSortField(req.SortBy)
	if err != nil {
		return nil, errs.BadRequest(map[string]string{"sortBy": err.Error()})
	}
	if req.Page > MaxPage {
		return nil, errs.BadRequest(map[string]string{"page": fmt.Sprintf("must not exceed %d", MaxPage)})
	}
	if req.MinPrice != nil && req.MaxPrice != nil && req.MinPrice.GreaterThan(*req.MaxPrice) {
		return nil, errs.BadRequest(map[string]string{"minPrice": "must not exceed maxPrice"})
	}

	ascending := true
	if req.Ascending != nil {
		ascending = *req.Ascending
	}

	q := NewQuery(Filter{
		SearchTerm: req.SearchTerm,
		Category:   req.Category,
		Brand:      req.Brand,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		Tags:       req.Tags,
		Attributes: req.Attributes,
	}, Sort{Field: field, Ascending: ascending}, req.Page, req.PageSize)

	products, total, err := s.repo.Search(ctx, q)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"sort": field.String(),
			"page": q.Page,
		}).Error("product search failed")
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	items := make([]Response, len(products))
	for i := range products {
		items[i] = ToResponse(&products[i])
	}

	return NewPage(items, q, total), nil
}

// GetByID retrieves a single product. Soft-deleted products are not found.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Response, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrProductNotFound) {
		return nil, errs.NotFound("product %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	if p.IsDeleted {
		return nil, errs.NotFound("product %s", id)
	}

	resp := ToResponse(p)
	return &resp, nil
}

// Create validates the request and persists a new product
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	p, err := NewProduct(req.draft())
	if err != nil {
		return nil, toValidation(err)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.WithError(err).WithField("name", p.Name).Error("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithField("product_id", p.ID).Info("product created")

	resp := ToResponse(p)
	return &resp, nil
}

// Update replaces the state of an existing, non-deleted product
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (MutationResult, error) {
	create := (*CreateRequest)(req)
	if err := validateRequest(create); err != nil {
		return MutationOK, err
	}

	next, err := NewProduct(create.draft())
	if err != nil {
		return MutationOK, toValidation(err)
	}

	current, result, err := s.loadMutable(ctx, id)
	if err != nil || result != MutationOK {
		return result, err
	}

	current.Replace(next)
	if err := s.repo.Update(ctx, current); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Error("failed to update product")
		return MutationOK, fmt.Errorf("failed to update product: %w", err)
	}

	return MutationOK, nil
}

// Delete soft-deletes an existing, non-deleted product
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (MutationResult, error) {
	current, result, err := s.loadMutable(ctx, id)
	if err != nil || result != MutationOK {
		return result, err
	}

	current.MarkDeleted()
	if err := s.repo.Update(ctx, current); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Error("failed to delete product")
		return MutationOK, fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.WithField("product_id", id).Info("product soft-deleted")
	return MutationOK, nil
}

// ListCategories returns all known categories
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListBrands returns all known brands
func (s *Service) ListBrands(ctx context.Context) ([]Brand, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

func (s *Service) loadMutable(ctx context.Context, id uuid.UUID) (*Product, MutationResult, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrProductNotFound) {
		return nil, MutationNotFound, nil
	}
	if err != nil {
		return nil, MutationOK, fmt.Errorf("failed to find product: %w", err)
	}
	if p.IsDeleted {
		return nil, MutationAlreadyDeleted, nil
	}
	return p, MutationOK, nil
}

// validateRequest applies the request-level field rules ahead of entity
// construction
func validateRequest(req *CreateRequest) error {
	if req == nil {
		return errs.BadRequest(map[string]string{"body": "product data is required"})
	}

	fields := map[string]string{}

	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "Product name is required."
	} else if utf8.RuneCountInString(req.Name) > 100 {
		fields["name"] = "Product name cannot exceed 100 characters."
	}

	if strings.TrimSpace(req.Description) == "" {
		fields["description"] = "Product description is required."
	} else if utf8.RuneCountInString(req.Description) > 500 {
		fields["description"] = "Product description cannot exceed 500 characters."
	}

	if strings.TrimSpace(req.ImageURL) == "" {
		fields["image_url"] = "Product image URL is required."
	} else if utf8.RuneCountInString(req.ImageURL) > 2048 {
		fields["image_url"] = "Product image URL cannot exceed 2048 characters."
	} else if u, err := url.Parse(strings.TrimSpace(req.ImageURL)); err != nil || !u.IsAbs() || u.Host == "" {
		fields["image_url"] = "Product image URL must be a valid absolute URL."
	}

	for _, tag := range req.Tags {
		if utf8.RuneCountInString(tag) > 50 {
			fields["tags"] = "Tags cannot exceed 50 characters."
		}
	}
	for key, value := range req.Attributes {
		if strings.TrimSpace(key) == "" || utf8.RuneCountInString(key) > 100 {
			fields["attributes"] = "Attribute keys must be 1 to 100 characters."
		} else if utf8.RuneCountInString(value) > 500 {
			fields["attributes"] = "Attribute values cannot exceed 500 characters."
		}
	}

	switch {
	case !req.Price.IsPositive():
		fields["price"] = "Product price must be greater than zero."
	case !req.Price.Equal(req.Price.Truncate(priceScale)):
		fields["price"] = "Product price cannot have more than 2 decimal places."
	case req.Price.GreaterThan(maxPrice):
		fields["price"] = "Product price cannot exceed " + maxPrice.String() + "."
	}

	if len(fields) > 0 {
		return errs.Validation(fields)
	}
	return nil
}

func toValidation(err error) error {
	switch {
	case errors.Is(err, ErrNameRequired):
		return errs.Invalid("name", err.Error())
	case errors.Is(err, ErrPriceNotPositive):
		return errs.Invalid("price", err.Error())
	case errors.Is(err, ErrCategoryRequired):
		return errs.Invalid("category", err.Error())
	case errors.Is(err, ErrBrandRequired):
		return errs.Invalid("brand", err.Error())
	}
	return err
}
