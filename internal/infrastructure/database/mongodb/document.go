package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/shop-services/internal/domain/cart"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cartDocument is the stored shape of a cart. Ids are kept as strings and
// prices as Decimal128 so documents stay readable from the shell.
type cartDocument struct {
	UserID    string         `bson:"user_id"`
	Items     []itemDocument `bson:"items"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

type itemDocument struct {
	ProductID   string               `bson:"product_id"`
	ProductName string               `bson:"product_name"`
	UnitPrice   primitive.Decimal128 `bson:"unit_price"`
	Quantity    int                  `bson:"quantity"`
}

func toItemDocument(item cart.Item) (itemDocument, error) {
	price, err := primitive.ParseDecimal128(item.UnitPrice.String())
	if err != nil {
		return itemDocument{}, fmt.Errorf("invalid unit price %s: %w", item.UnitPrice, err)
	}
	return itemDocument{
		ProductID:   item.ProductID.String(),
		ProductName: item.ProductName,
		UnitPrice:   price,
		Quantity:    item.Quantity,
	}, nil
}

func toCartDocument(c *cart.Cart) (*cartDocument, error) {
	doc := &cartDocument{
		UserID:    c.UserID.String(),
		Items:     make([]itemDocument, 0, len(c.Items)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, item := range c.Items {
		d, err := toItemDocument(item)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, d)
	}
	return doc, nil
}

func (d *cartDocument) toDomain() (*cart.Cart, error) {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored user id %q: %w", d.UserID, err)
	}

	c := &cart.Cart{
		UserID:    userID,
		Items:     make([]cart.Item, 0, len(d.Items)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, item := range d.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid stored product id %q: %w", item.ProductID, err)
		}
		price, err := decimal.NewFromString(item.UnitPrice.String())
		if err != nil {
			return nil, fmt.Errorf("invalid stored unit price: %w", err)
		}
		c.Items = append(c.Items, cart.Item{
			ProductID:   productID,
			ProductName: item.ProductName,
			UnitPrice:   price,
			Quantity:    item.Quantity,
		})
	}
	return c, nil
}
