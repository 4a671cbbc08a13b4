package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/catalog"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/cache"
	"github.com/primake/primake-api/pkg/money"
	"github.com/primake/primake-api/pkg/pagination"
	"github.com/primake/primake-api/pkg/utils"
	"go.uber.org/zap"
)

const skuCacheTTL = 10 * time.Minute

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
	cache       cache.Cache
	log         *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, c cache.Cache, log *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       c,
		log:         log,
	}
}

// ProductInput carries the editable product fields. Prices are decimal reais.
type ProductInput struct {
	SKU            string
	Name           string
	Category       enum.ProductCategory
	PriceCost      float64
	PriceSale      float64
	PricePromotion *float64
	IsPromotion    bool
	Stock          int
	MinStock       int
	Unit           string
	Brand          *string
	Size           *string
	Color          *string
	Description    *string
	Supplier       *string
	ImageURL       *string
}

func validateProductInput(input *ProductInput) error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if !input.Category.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "category", Message: "Invalid category"})
	}
	if input.PriceCost < 0 || input.PriceSale < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price_sale", Message: "Prices cannot be negative"})
	}
	if input.PricePromotion != nil && *input.PricePromotion < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price_promotion", Message: "Promotional price cannot be negative"})
	}
	if input.Stock < 0 || input.MinStock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock", Message: "Stock cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func applyProductInput(p *entity.Product, input *ProductInput) {
	p.Name = strings.TrimSpace(input.Name)
	p.Category = input.Category
	p.PriceCost = money.FromFloat(input.PriceCost)
	p.PriceSale = money.FromFloat(input.PriceSale)
	p.PricePromotion = nil
	if input.PricePromotion != nil {
		v := money.FromFloat(*input.PricePromotion)
		p.PricePromotion = &v
	}
	p.IsPromotion = input.IsPromotion
	p.Stock = input.Stock
	p.MinStock = input.MinStock
	p.Unit = input.Unit
	if p.Unit == "" {
		p.Unit = "un"
	}
	p.Brand = input.Brand
	p.Size = input.Size
	p.Color = input.Color
	p.Description = input.Description
	p.Supplier = input.Supplier
	p.ImageURL = input.ImageURL
}

func (s *ProductService) ensureSKUFree(ctx context.Context, sku string, self uuid.UUID) error {
	existing, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("SKU already exists")
	}
	return nil
}

// CreateProduct creates a new product. Bundles are created through CreateBundle.
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if input.Category == enum.CategoryBundle {
		return nil, apperror.NewBadRequestError("Use the bundle endpoint to create a Kit / Combo")
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		sku = utils.GenerateSKU()
	}
	if err := s.ensureSKUFree(ctx, sku, uuid.Nil); err != nil {
		return nil, err
	}

	product := &entity.Product{SKU: sku, IsActive: true}
	applyProductInput(product, input)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

func (s *ProductService) skuKey(sku string) string {
	return s.cache.GenerateKey("sku", strings.ToLower(strings.TrimSpace(sku)))
}

// GetProductBySKU is the barcode lookup. The SKU to id mapping is cached so
// repeated scans at the counter skip the case-insensitive scan.
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, apperror.NewBadRequestError("SKU is required")
	}

	key := s.skuKey(sku)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		if id, err := uuid.Parse(cached); err == nil {
			product, err := s.productRepo.GetByID(ctx, id)
			if err == nil && product != nil && strings.EqualFold(product.SKU, strings.TrimSpace(sku)) {
				return product, nil
			}
		}
	} else if err != nil {
		s.log.Warn("sku cache read failed", zap.String("sku", sku), zap.Error(err))
	}

	product, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := s.cache.Set(ctx, key, product.ID.String(), skuCacheTTL); err != nil {
		s.log.Warn("sku cache write failed", zap.String("sku", sku), zap.Error(err))
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct overwrites the editable fields of a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsBundle() != (input.Category == enum.CategoryBundle) {
		return nil, apperror.NewBadRequestError("Category cannot change between product and Kit / Combo")
	}

	oldSKU := product.SKU
	if sku := strings.TrimSpace(input.SKU); sku != "" && !strings.EqualFold(sku, oldSKU) {
		if err := s.ensureSKUFree(ctx, sku, product.ID); err != nil {
			return nil, err
		}
		product.SKU = sku
	}

	applyProductInput(product, input)
	if product.IsBundle() {
		product.Stock = 0
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateSKU(ctx, oldSKU, product.SKU)

	return s.productRepo.GetByID(ctx, product.ID)
}

func (s *ProductService) invalidateSKU(ctx context.Context, skus ...string) {
	keys := make([]string, 0, len(skus))
	for _, sku := range skus {
		keys = append(keys, s.skuKey(sku))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("sku cache invalidation failed", zap.Strings("skus", skus), zap.Error(err))
	}
}

// DeactivateProduct hides a product from the catalog and the counter
func (s *ProductService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

// ReactivateProduct restores a deactivated product
func (s *ProductService) ReactivateProduct(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *ProductService) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.invalidateSKU(ctx, product.SKU)
	return nil
}

// ListLowStock returns active products at or below their minimum stock
func (s *ProductService) ListLowStock(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// AdjustStock adds delta to a product's stock. Stock never drops below zero.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsBundle() {
		return nil, apperror.NewBadRequestError("Kit / Combo stock is derived from its components")
	}

	ok, err := s.productRepo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewUnprocessableError("insufficient_stock", "Stock cannot go below zero")
	}

	return s.productRepo.GetByID(ctx, id)
}

// VariationInput carries the fields of a new variation
type VariationInput struct {
	Name          string
	Type          string
	Stock         int
	SKU           *string
	PriceOverride *float64
}

// AddVariation attaches a size or color variant to a product
func (s *ProductService) AddVariation(ctx context.Context, productID uuid.UUID, input *VariationInput) (*entity.ProductVariation, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.IsBundle() {
		return nil, apperror.NewBadRequestError("A Kit / Combo cannot have variations")
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Type) == "" {
		return nil, apperror.NewBadRequestError("Variation name and type are required")
	}
	if input.Stock < 0 {
		return nil, apperror.NewBadRequestError("Stock cannot be negative")
	}

	variation := &entity.ProductVariation{
		ProductID: productID,
		Name:      strings.TrimSpace(input.Name),
		Type:      strings.TrimSpace(input.Type),
		Stock:     input.Stock,
		SKU:       input.SKU,
	}
	if input.PriceOverride != nil {
		v := money.FromFloat(*input.PriceOverride)
		variation.PriceOverride = &v
	}

	if err := s.productRepo.AddVariation(ctx, variation); err != nil {
		return nil, err
	}
	return variation, nil
}

// ListVariations lists the variants of a product
func (s *ProductService) ListVariations(ctx context.Context, productID uuid.UUID) ([]entity.ProductVariation, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.productRepo.ListVariations(ctx, productID)
}

// DeleteVariation removes a variant
func (s *ProductService) DeleteVariation(ctx context.Context, productID, variationID uuid.UUID) error {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.FindVariation(variationID) == nil {
		return apperror.NewNotFoundError("Variation")
	}
	return s.productRepo.DeleteVariation(ctx, productID, variationID)
}

// BundleComponentInput is one product and quantity inside a bundle
type BundleComponentInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// BundleInput carries the fields of a Kit / Combo
type BundleInput struct {
	SKU         string
	Name        string
	PriceSale   float64
	Description *string
	ImageURL    *string
	Components  []BundleComponentInput
}

// BundleView is a bundle with its derived stock and pricing
type BundleView struct {
	Product *entity.Product       `json:"product"`
	Summary catalog.BundleSummary `json:"summary"`
}

func (s *ProductService) buildComponents(ctx context.Context, inputs []BundleComponentInput) ([]entity.BundleComponent, catalog.Lookup, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	merged := make(map[uuid.UUID]int, len(inputs))
	for _, in := range inputs {
		if _, seen := merged[in.ProductID]; !seen {
			ids = append(ids, in.ProductID)
		}
		merged[in.ProductID] += in.Quantity
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	lookup := catalog.FromSlice(products)

	components := make([]entity.BundleComponent, 0, len(ids))
	for _, id := range ids {
		components = append(components, entity.BundleComponent{ProductID: id, Quantity: merged[id]})
	}

	if err := catalog.Validate(components, lookup); err != nil {
		return nil, nil, bundleError(err)
	}
	return components, lookup, nil
}

func bundleError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrComponentNotFound):
		return apperror.NewNotFoundError("Component product")
	case errors.Is(err, catalog.ErrNoComponents),
		errors.Is(err, catalog.ErrInvalidComponent),
		errors.Is(err, catalog.ErrNestedBundle):
		return apperror.NewUnprocessableError("invalid_bundle", err.Error())
	}
	return err
}

// CreateBundle creates a Kit / Combo product with its components
func (s *ProductService) CreateBundle(ctx context.Context, input *BundleInput) (*BundleView, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if input.PriceSale < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}

	components, _, err := s.buildComponents(ctx, input.Components)
	if err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		sku = utils.GenerateSKU()
	}
	if err := s.ensureSKUFree(ctx, sku, uuid.Nil); err != nil {
		return nil, err
	}

	bundle := &entity.Product{
		SKU:              sku,
		Name:             strings.TrimSpace(input.Name),
		Category:         enum.CategoryBundle,
		PriceSale:        money.FromFloat(input.PriceSale),
		Description:      input.Description,
		ImageURL:         input.ImageURL,
		Unit:             "un",
		IsActive:         true,
		BundleComponents: components,
	}

	if err := s.productRepo.SaveBundle(ctx, bundle); err != nil {
		return nil, err
	}
	return s.GetBundle(ctx, bundle.ID)
}

// UpdateBundle replaces the name, price and components of a bundle
func (s *ProductService) UpdateBundle(ctx context.Context, id uuid.UUID, input *BundleInput) (*BundleView, error) {
	bundle, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bundle.IsBundle() {
		return nil, apperror.NewNotFoundError("Bundle")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}

	components, _, err := s.buildComponents(ctx, input.Components)
	if err != nil {
		return nil, err
	}
	for _, c := range components {
		if c.ProductID == bundle.ID {
			return nil, apperror.NewUnprocessableError("invalid_bundle", catalog.ErrNestedBundle.Error())
		}
	}

	oldSKU := bundle.SKU
	if sku := strings.TrimSpace(input.SKU); sku != "" && !strings.EqualFold(sku, oldSKU) {
		if err := s.ensureSKUFree(ctx, sku, bundle.ID); err != nil {
			return nil, err
		}
		bundle.SKU = sku
	}
	bundle.Name = strings.TrimSpace(input.Name)
	bundle.PriceSale = money.FromFloat(input.PriceSale)
	bundle.Description = input.Description
	bundle.ImageURL = input.ImageURL
	bundle.BundleComponents = components
	bundle.Variations = nil

	if err := s.productRepo.SaveBundle(ctx, bundle); err != nil {
		return nil, err
	}
	s.invalidateSKU(ctx, oldSKU, bundle.SKU)
	return s.GetBundle(ctx, bundle.ID)
}

// GetBundle loads a bundle with its derived values
func (s *ProductService) GetBundle(ctx context.Context, id uuid.UUID) (*BundleView, error) {
	bundle, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bundle.IsBundle() {
		return nil, apperror.NewNotFoundError("Bundle")
	}
	return &BundleView{Product: bundle, Summary: catalog.Summarize(bundle, componentLookup(bundle))}, nil
}

// ListBundles lists active bundles with stock, cost, real value and savings
func (s *ProductService) ListBundles(ctx context.Context) ([]BundleView, error) {
	bundles, err := s.productRepo.ListBundles(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]BundleView, 0, len(bundles))
	for i := range bundles {
		b := &bundles[i]
		views = append(views, BundleView{Product: b, Summary: catalog.Summarize(b, componentLookup(b))})
	}
	return views, nil
}

// componentLookup resolves components from the products preloaded on the bundle
func componentLookup(bundle *entity.Product) catalog.Lookup {
	byID := make(map[uuid.UUID]*entity.Product, len(bundle.BundleComponents))
	for _, c := range bundle.BundleComponents {
		if c.Product != nil {
			byID[c.ProductID] = c.Product
		}
	}
	return func(id uuid.UUID) *entity.Product {
		return byID[id]
	}
}
