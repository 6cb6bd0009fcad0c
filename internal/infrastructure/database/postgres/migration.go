// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-services/internal/domain/product"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all catalog tables
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("running database auto-migrations")

	// Dependency order: referenced tables first
	models := []interface{}{
		&categoryRecord{},
		&brandRecord{},
		&productRecord{},
		&productTagRecord{},
		&productAttributeRecord{},
	}

	for _, model := range models {
		m.logger.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates the search and ordering indexes that AutoMigrate
// does not derive from struct tags
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_active_created ON products(is_deleted, created_at, id)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_product_attributes_pair ON product_attributes(attr_key, attr_value)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("database indexes ensured")

	if failed > 0 {
		return fmt.Errorf("%d of %d indexes could not be created", failed, len(indexes))
	}
	return nil
}

// SeedInitialData inserts a small demo catalog into an empty database
func (m *Migration) SeedInitialData(ctx context.Context) error {
	var count int64
	if err := m.db.WithContext(ctx).Model(&productRecord{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		m.logger.Debug("catalog already seeded")
		return nil
	}

	drafts := []product.Draft{
		{
			Name:        "Premium Gaming Laptop",
			Description: "High-performance gaming laptop with dedicated graphics.",
			ImageURL:    "https://images.example.com/products/gaming-laptop.png",
			Price:       decimal.RequireFromString("1999.99"),
			Category:    "Electronics",
			Brand:       "Apex",
			Tags:        []string{"gaming", "laptop"},
			Attributes:  map[string]string{"ram": "32GB", "color": "black"},
		},
		{
			Name:        "Wireless Gaming Mouse",
			Description: "Ergonomic wireless mouse with a high-precision sensor.",
			ImageURL:    "https://images.example.com/products/gaming-mouse.png",
			Price:       decimal.RequireFromString("79.99"),
			Category:    "Electronics",
			Brand:       "Apex",
			Tags:        []string{"gaming", "wireless"},
			Attributes:  map[string]string{"color": "black"},
		},
		{
			Name:        "Organic Cotton T-Shirt",
			Description: "Soft crew-neck t-shirt made from organic cotton.",
			ImageURL:    "https://images.example.com/products/cotton-tshirt.png",
			Price:       decimal.RequireFromString("24.50"),
			Category:    "Clothing",
			Brand:       "Northwind",
			Tags:        []string{"organic"},
			Attributes:  map[string]string{"size": "M", "color": "white"},
		},
	}

	repo := NewProductRepository(m.db)
	for _, d := range drafts {
		p, err := product.NewProduct(d)
		if err != nil {
			return fmt.Errorf("invalid seed product %q: %w", d.Name, err)
		}
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
	}

	m.logger.WithField("products", len(drafts)).Info("initial catalog seeded")
	return nil
}
