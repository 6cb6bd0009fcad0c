// internal/domain/product/query.go
package product

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*pageSize well inside int range
	MaxPage = 1_000_000
)

// Filter holds the optional search criteria. Zero values mean "no constraint".
type Filter struct {
	SearchTerm string
	Category   string
	Brand      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Tags       []string
	Attributes map[string]string
}

// Clause is one predicate of a query. All clauses of a query are AND-combined.
// Storage adapters translate clauses into their own query language; Matches
// gives the reference semantics for in-process evaluation.
type Clause interface {
	Matches(p *Product) bool
}

// SearchTermClause matches a case-sensitive substring of the product name or brand name
type SearchTermClause struct{ Term string }

// CategoryClause matches the category name exactly
type CategoryClause struct{ Name string }

// BrandClause matches the brand name exactly
type BrandClause struct{ Name string }

// MinPriceClause matches Price >= Amount
type MinPriceClause struct{ Amount decimal.Decimal }

// MaxPriceClause matches Price <= Amount
type MaxPriceClause struct{ Amount decimal.Decimal }

// TagsClause matches products carrying every listed tag
type TagsClause struct{ Names []string }

// AttributesClause matches products having, for every key, the same value
type AttributesClause struct{ Pairs map[string]string }

// NotDeletedClause excludes soft-deleted products
type NotDeletedClause struct{}

func (c SearchTermClause) Matches(p *Product) bool {
	if strings.Contains(p.Name, c.Term) {
		return true
	}
	return p.Brand != nil && strings.Contains(p.Brand.Name, c.Term)
}

func (c CategoryClause) Matches(p *Product) bool {
	return p.Category != nil && p.Category.Name == c.Name
}

func (c BrandClause) Matches(p *Product) bool {
	return p.Brand != nil && p.Brand.Name == c.Name
}

func (c MinPriceClause) Matches(p *Product) bool {
	return p.Price.GreaterThanOrEqual(c.Amount)
}

func (c MaxPriceClause) Matches(p *Product) bool {
	return p.Price.LessThanOrEqual(c.Amount)
}

func (c TagsClause) Matches(p *Product) bool {
	for _, name := range c.Names {
		if !p.HasTag(name) {
			return false
		}
	}
	return true
}

func (c AttributesClause) Matches(p *Product) bool {
	for key, want := range c.Pairs {
		got, ok := p.Attribute(key)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func (NotDeletedClause) Matches(p *Product) bool {
	return !p.IsDeleted
}

// SortField selects the ordering column
type SortField int

const (
	// SortDefault orders by creation time, then id
	SortDefault SortField = iota
	SortName
	SortPrice
	SortBrand
	SortCategory
)

var sortFieldNames = map[string]SortField{
	"name":     SortName,
	"price":    SortPrice,
	"brand":    SortBrand,
	"category": SortCategory,
}

// ParseSortField maps a sortBy parameter to a field. Empty input selects the
// default order; unknown names are rejected.
func ParseSortField(s string) (SortField, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortDefault, nil
	}
	field, ok := sortFieldNames[s]
	if !ok {
		return SortDefault, fmt.Errorf("unsupported sort field %q, expected one of name, price, brand, category", s)
	}
	return field, nil
}

func (f SortField) String() string {
	for name, field := range sortFieldNames {
		if field == f {
			return name
		}
	}
	return "default"
}

// Sort is a single-field ordering
type Sort struct {
	Field     SortField
	Ascending bool
}

// Query is a store-agnostic search specification
type Query struct {
	Clauses  []Clause
	Sort     Sort
	Page     int
	PageSize int
}

// NewQuery composes the clause list for filter and normalizes paging
func NewQuery(filter Filter, sort Sort, page, pageSize int) Query {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	clauses := []Clause{NotDeletedClause{}}

	// A blank term is no constraint; otherwise the term is matched as given,
	// surrounding spaces included
	if strings.TrimSpace(filter.SearchTerm) != "" {
		clauses = append(clauses, SearchTermClause{Term: filter.SearchTerm})
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		clauses = append(clauses, CategoryClause{Name: category})
	}
	if brand := strings.TrimSpace(filter.Brand); brand != "" {
		clauses = append(clauses, BrandClause{Name: brand})
	}
	if filter.MinPrice != nil {
		clauses = append(clauses, MinPriceClause{Amount: *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, MaxPriceClause{Amount: *filter.MaxPrice})
	}
	if tags := nonBlank(filter.Tags); len(tags) > 0 {
		clauses = append(clauses, TagsClause{Names: tags})
	}
	if len(filter.Attributes) > 0 {
		pairs := make(map[string]string, len(filter.Attributes))
		for k, v := range filter.Attributes {
			pairs[k] = v
		}
		clauses = append(clauses, AttributesClause{Pairs: pairs})
	}

	return Query{
		Clauses:  clauses,
		Sort:     sort,
		Page:     page,
		PageSize: pageSize,
	}
}

// Offset returns the number of matches skipped before this page
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Matches reports whether p satisfies every clause
func (q Query) Matches(p *Product) bool {
	for _, c := range q.Clauses {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

// Less orders a before b under the query's sort, breaking ties by creation
// time and id so paging is stable
func (q Query) Less(a, b *Product) bool {
	if cmp := compareField(q.Sort.Field, a, b); cmp != 0 {
		if q.Sort.Ascending {
			return cmp < 0
		}
		return cmp > 0
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func compareField(field SortField, a, b *Product) int {
	switch field {
	case SortName:
		return strings.Compare(a.Name, b.Name)
	case SortPrice:
		return a.Price.Cmp(b.Price)
	case SortBrand:
		return strings.Compare(brandName(a), brandName(b))
	case SortCategory:
		return strings.Compare(categoryName(a), categoryName(b))
	}
	return 0
}

// Page is one slice of a paginated result
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPage builds pagination metadata. total is the size of the whole
// filtered set, not of this page.
func NewPage[T any](items []T, q Query, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &Page[T]{
		Items:      items,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    q.Page < totalPages,
		HasPrev:    q.Page > 1,
	}
}

func brandName(p *Product) string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}

func categoryName(p *Product) string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
