// internal/infrastructure/database/mongodb/cart_repository.go
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/shop-services/internal/domain/cart"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxAddAttempts bounds the increment/push retry loop when concurrent adds
// race to create the same cart or line
const maxAddAttempts = 5

// CartRepository stores one document per user in a single collection
type CartRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewCartRepository creates a cart repository over the named collection
func NewCartRepository(db *mongo.Database, collection string) *CartRepository {
	return &CartRepository{
		collection: db.Collection(collection),
		now:        time.Now,
	}
}

// CreateIndexes enforces one cart per user
func (r *CartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_id"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "items.product_id", Value: 1}},
			Options: options.Index().SetName("idx_user_product"),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var doc cartDocument

	err := r.collection.FindOne(ctx, bson.M{"user_id": userID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cart.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return doc.toDomain()
}

// AddItem increments the quantity of an existing line or appends a new one.
// Each step is a single-document update, so concurrent adds are never lost:
// the increment runs server side, and the push is guarded by a "line absent"
// filter plus the unique user_id index. Losing a race sends us back to the
// increment.
func (r *CartRepository) AddItem(ctx context.Context, userID uuid.UUID, item cart.Item) error {
	doc, err := toItemDocument(item)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		incremented, err := r.incrementItem(ctx, userID, doc)
		if err != nil {
			return err
		}
		if incremented {
			return nil
		}

		err = r.pushItem(ctx, userID, doc)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to add item: %w", err)
		}
	}

	return fmt.Errorf("failed to add item after %d attempts: concurrent modification", maxAddAttempts)
}

func (r *CartRepository) incrementItem(ctx context.Context, userID uuid.UUID, doc itemDocument) (bool, error) {
	filter := bson.M{
		"user_id":          userID.String(),
		"items.product_id": doc.ProductID,
	}
	update := bson.M{
		"$inc": bson.M{"items.$.quantity": doc.Quantity},
		"$set": bson.M{"updated_at": r.now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to increment item quantity: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *CartRepository) pushItem(ctx context.Context, userID uuid.UUID, doc itemDocument) error {
	now := r.now().UTC()
	filter := bson.M{
		"user_id":          userID.String(),
		"items.product_id": bson.M{"$ne": doc.ProductID},
	}
	update := bson.M{
		"$push":        bson.M{"items": doc},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// RemoveItem pulls the line for productID. Missing carts and lines are not errors.
func (r *CartRepository) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	filter := bson.M{
		"user_id":          userID.String(),
		"items.product_id": productID.String(),
	}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID.String()}},
		"$set":  bson.M{"updated_at": r.now().UTC()},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

func (r *CartRepository) SetItemQuantity(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) error {
	filter := bson.M{
		"user_id":          userID.String(),
		"items.product_id": productID.String(),
	}
	update := bson.M{
		"$set": bson.M{
			"items.$.quantity": quantity,
			"updated_at":       r.now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Save replaces the stored items of the cart, creating the document if needed
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	doc, err := toCartDocument(c)
	if err != nil {
		return err
	}

	now := r.now().UTC()
	filter := bson.M{"user_id": doc.UserID}
	update := bson.M{
		"$set": bson.M{
			"items":      doc.Items,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
