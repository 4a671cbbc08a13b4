package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID loads the product with its variations and bundle components
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// GetBySKU matches the SKU case-insensitively (barcode lookup)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// ListActive returns the whole active catalog, ordered by name
	ListActive(ctx context.Context) ([]entity.Product, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)
	CountLowStock(ctx context.Context) (int64, error)
	// ListBundles returns active bundles with their components preloaded
	ListBundles(ctx context.Context) ([]entity.Product, error)
	// SaveBundle creates or updates a bundle and replaces its component list
	SaveBundle(ctx context.Context, bundle *entity.Product) error
	// UpsertBySKU creates the product or updates the one with the same SKU
	UpsertBySKU(ctx context.Context, product *entity.Product) (created bool, err error)
	// AdjustStock adds delta to stock. A negative delta only applies when stock
	// stays >= 0; it returns false otherwise.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error)
	// AtomicDecrementQuantity atomically decrements stock only if sufficient.
	// Returns (true, nil) if successful, (false, nil) if insufficient stock, (false, err) on error.
	AtomicDecrementQuantity(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	AtomicDecrementVariation(ctx context.Context, variationID uuid.UUID, amount int) (bool, error)

	AddVariation(ctx context.Context, variation *entity.ProductVariation) error
	ListVariations(ctx context.Context, productID uuid.UUID) ([]entity.ProductVariation, error)
	DeleteVariation(ctx context.Context, productID, variationID uuid.UUID) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   *enum.ProductCategory
	LowStock   bool
	Inactive   bool // list deactivated products instead of active ones
	SortBy     string
	SortOrder  string
}
