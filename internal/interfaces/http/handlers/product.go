// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/your-org/shop-services/internal/domain/product"
	"github.com/your-org/shop-services/internal/pkg/errs"
)

const attributeParamPrefix = "attr."

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *product.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	req, err := parseSearchRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, err := h.productService.Search(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+resp.ID.String())
	c.JSON(http.StatusCreated, resp)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req product.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if result != product.MutationOK {
		_ = c.Error(errs.NotFound("product %s (%s)", id, result))
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.productService.Delete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if result != product.MutationOK {
		_ = c.Error(errs.NotFound("product %s (%s)", id, result))
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCategories handles GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": categories})
}

// GetBrands handles GET /brands
func (h *ProductHandler) GetBrands(c *gin.Context) {
	brands, err := h.productService.ListBrands(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": brands})
}

// parseSearchRequest reads the list query. Any malformed parameter is a 400.
func parseSearchRequest(c *gin.Context) (*product.SearchRequest, error) {
	var req product.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make(map[string]string, len(validationErrs))
			for _, fe := range validationErrs {
				fields[queryFieldName(fe.Field())] = describe(fe)
			}
			return nil, errs.BadRequest(fields)
		}
		return nil, errs.BadRequest(map[string]string{"query": err.Error()})
	}

	fields := map[string]string{}
	req.MinPrice = parseDecimalParam(c, "minPrice", fields)
	req.MaxPrice = parseDecimalParam(c, "maxPrice", fields)
	if len(fields) > 0 {
		return nil, errs.BadRequest(fields)
	}

	req.Tags = splitTags(req.Tags)

	for key, values := range c.Request.URL.Query() {
		name, ok := strings.CutPrefix(key, attributeParamPrefix)
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		if req.Attributes == nil {
			req.Attributes = map[string]string{}
		}
		req.Attributes[name] = values[len(values)-1]
	}

	return &req, nil
}

func parseDecimalParam(c *gin.Context, name string, fields map[string]string) *decimal.Decimal {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fields[name] = "must be a decimal number"
		return nil
	}
	if d.IsNegative() {
		fields[name] = "must not be negative"
		return nil
	}
	return &d
}

// splitTags accepts repeated tags parameters as well as comma separated lists
func splitTags(raw []string) []string {
	var tags []string
	for _, value := range raw {
		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func queryFieldName(field string) string {
	switch field {
	case "SearchTerm":
		return "search"
	case "PageSize":
		return "pageSize"
	case "SortBy":
		return "sortBy"
	}
	return strings.ToLower(field)
}
