package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Name:        "  Phone X  ",
		Description: "A phone",
		ImageURL:    "https://img.example.com/x.png",
		Price:       decimal.RequireFromString("499.99"),
		Category:    "Phones",
		Brand:       "Acme",
		Tags:        []string{"5g", "", "5g", "oled"},
		Attributes:  map[string]string{"color": "black", "storage": "128GB"},
	}
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(validDraft())
	require.NoError(t, err)

	assert.Equal(t, "Phone X", p.Name)
	assert.Equal(t, []string{"5g", "oled"}, p.TagNames())
	assert.Equal(t, map[string]string{"color": "black", "storage": "128GB"}, p.AttributeMap())
	assert.Equal(t, "Phones", p.Category.Name)
	assert.Equal(t, "Acme", p.Brand.Name)
	assert.False(t, p.IsDeleted)
}

func TestNewProductValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Draft)
		want   error
	}{
		{"blank name", func(d *Draft) { d.Name = "   " }, ErrNameRequired},
		{"zero price", func(d *Draft) { d.Price = decimal.Zero }, ErrPriceNotPositive},
		{"negative price", func(d *Draft) { d.Price = decimal.NewFromInt(-1) }, ErrPriceNotPositive},
		{"no category", func(d *Draft) { d.Category = "" }, ErrCategoryRequired},
		{"no brand", func(d *Draft) { d.Brand = " " }, ErrBrandRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			_, err := NewProduct(d)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProduct_TagsAndAttributes(t *testing.T) {
	p, err := NewProduct(validDraft())
	require.NoError(t, err)

	p.RemoveTag("5g")
	assert.False(t, p.HasTag("5g"))
	assert.True(t, p.HasTag("oled"))

	p.AddAttribute("color", "white")
	v, ok := p.Attribute("color")
	assert.True(t, ok)
	assert.Equal(t, "white", v)
	assert.Len(t, p.Attributes, 2)

	_, ok = p.Attribute("weight")
	assert.False(t, ok)
}

func TestProduct_ReplaceKeepsIdentity(t *testing.T) {
	p, err := NewProduct(validDraft())
	require.NoError(t, err)
	id, created := p.ID, p.CreatedAt

	d := validDraft()
	d.Name = "Phone Y"
	d.Tags = nil
	next, err := NewProduct(d)
	require.NoError(t, err)

	p.Replace(next)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, "Phone Y", p.Name)
	assert.Empty(t, p.Tags)
}
