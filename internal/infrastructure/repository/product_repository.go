package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	domainRepo "github.com/primake/primake-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Variations").Preload("BundleComponents.Product").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Preload("Variations").Preload("BundleComponents.Product").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Variations").Preload("BundleComponents.Product").
		First(&product, "LOWER(sku) = ?", strings.ToLower(strings.TrimSpace(sku))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Omit("BundleComponents", "Variations").Save(product).Error
}

func (r *productRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(ActiveScope(params.Inactive), SearchScope(params.Search, "name", "sku"))

	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}

	if params.LowStock {
		query = query.Where("stock <= min_stock")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Variations").
		Order(orderClause(params.SortBy, params.SortOrder, "created_at", "name", "sku", "stock", "price_sale", "created_at")).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListActive(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ActiveScope(false)).
		Preload("Variations").Preload("BundleComponents").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ActiveScope(false)).
		Where("stock <= min_stock AND category <> ?", enum.CategoryBundle).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(ActiveScope(false)).
		Where("stock <= min_stock AND category <> ?", enum.CategoryBundle).
		Count(&count).Error
	return count, err
}

func (r *productRepository) ListBundles(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ActiveScope(false)).
		Where("category = ?", enum.CategoryBundle).
		Preload("BundleComponents.Product").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// SaveBundle writes the bundle row and replaces its components in a single transaction
func (r *productRepository) SaveBundle(ctx context.Context, bundle *entity.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		components := bundle.BundleComponents
		bundle.BundleComponents = nil

		if bundle.ID == uuid.Nil {
			if err := tx.Omit("Variations").Create(bundle).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Omit("Variations").Save(bundle).Error; err != nil {
				return err
			}
			if err := tx.Where("bundle_id = ?", bundle.ID).Delete(&entity.BundleComponent{}).Error; err != nil {
				return err
			}
		}

		for i := range components {
			components[i].ID = uuid.Nil
			components[i].BundleID = bundle.ID
			components[i].Product = nil
		}
		if len(components) > 0 {
			if err := tx.Create(&components).Error; err != nil {
				return err
			}
		}
		bundle.BundleComponents = components
		return nil
	})
}

func (r *productRepository) UpsertBySKU(ctx context.Context, product *entity.Product) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Product
		err := tx.Unscoped().First(&existing, "LOWER(sku) = ?", strings.ToLower(product.SKU)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Omit("BundleComponents", "Variations").Create(product).Error
		}
		if err != nil {
			return err
		}
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
		product.DeletedAt = gorm.DeletedAt{}
		return tx.Unscoped().Omit("BundleComponents", "Variations").Save(product).Error
	})
	return created, err
}

// AdjustStock applies delta atomically.
// Uses: UPDATE products SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AtomicDecrementQuantity atomically decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET stock = stock - amount WHERE id = ? AND stock >= amount
func (r *productRepository) AtomicDecrementQuantity(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ? AND stock >= ?", id, amount).
		Update("stock", gorm.Expr("stock - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}

	// If no rows were affected, insufficient stock
	return result.RowsAffected > 0, nil
}

func (r *productRepository) AtomicDecrementVariation(ctx context.Context, variationID uuid.UUID, amount int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.ProductVariation{}).
		Where("id = ? AND stock >= ?", variationID, amount).
		Update("stock", gorm.Expr("stock - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepository) AddVariation(ctx context.Context, variation *entity.ProductVariation) error {
	return r.db.WithContext(ctx).Create(variation).Error
}

func (r *productRepository) ListVariations(ctx context.Context, productID uuid.UUID) ([]entity.ProductVariation, error) {
	var variations []entity.ProductVariation
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("type ASC, name ASC").
		Find(&variations).Error
	return variations, err
}

func (r *productRepository) DeleteVariation(ctx context.Context, productID, variationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", variationID, productID).
		Delete(&entity.ProductVariation{}).Error
}
