// internal/infrastructure/database/memory/product_store.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/shop-services/internal/domain/product"
)

// ProductStore keeps products in process memory and evaluates queries with
// the clauses' own Matches semantics
type ProductStore struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]*product.Product
	categories map[string]*product.Category
	brands     map[string]*product.Brand
	now        func() time.Time
}

// NewProductStore creates an empty product store
func NewProductStore() *ProductStore {
	return &ProductStore{
		products:   make(map[uuid.UUID]*product.Product),
		categories: make(map[string]*product.Category),
		brands:     make(map[string]*product.Brand),
		now:        time.Now,
	}
}

func (s *ProductStore) Search(_ context.Context, q product.Query) ([]product.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*product.Product, 0, len(s.products))
	for _, p := range s.products {
		if q.Matches(p) {
			matches = append(matches, p)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return q.Less(matches[i], matches[j])
	})

	total := int64(len(matches))
	start := q.Offset()
	if start < 0 || start > len(matches) {
		start = len(matches)
	}
	end := start + q.PageSize
	if end > len(matches) {
		end = len(matches)
	}

	page := make([]product.Product, 0, end-start)
	for _, p := range matches[start:end] {
		page = append(page, *copyProduct(p))
	}
	return page, total, nil
}

func (s *ProductStore) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (s *ProductStore) Create(_ context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.resolveReferences(p)
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *ProductStore) Update(_ context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return product.ErrProductNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now().UTC()
	s.resolveReferences(p)
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *ProductStore) ListCategories(_ context.Context) ([]product.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]product.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *ProductStore) ListBrands(_ context.Context) ([]product.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]product.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// resolveReferences shares one category/brand per name, like a find-or-create
// on the relational store. Caller holds the write lock.
func (s *ProductStore) resolveReferences(p *product.Product) {
	if p.Category != nil {
		existing, ok := s.categories[p.Category.Name]
		if !ok {
			c := *p.Category
			existing = &c
			s.categories[c.Name] = existing
		}
		c := *existing
		p.Category = &c
	}
	if p.Brand != nil {
		existing, ok := s.brands[p.Brand.Name]
		if !ok {
			b := *p.Brand
			existing = &b
			s.brands[b.Name] = existing
		}
		b := *existing
		p.Brand = &b
	}
}

func copyProduct(p *product.Product) *product.Product {
	out := *p
	out.Tags = append([]product.Tag{}, p.Tags...)
	out.Attributes = append([]product.Attribute{}, p.Attributes...)
	if p.Category != nil {
		c := *p.Category
		out.Category = &c
	}
	if p.Brand != nil {
		b := *p.Brand
		out.Brand = &b
	}
	return &out
}
