package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/application/service"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/internal/presentation/http/dto/request"
	"github.com/primake/primake-api/internal/presentation/http/dto/response"
	"github.com/primake/primake-api/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func productInput(req *request.ProductRequest) *service.ProductInput {
	return &service.ProductInput{
		SKU:            req.SKU,
		Name:           req.Name,
		Category:       req.Category,
		PriceCost:      req.PriceCost,
		PriceSale:      req.PriceSale,
		PricePromotion: req.PricePromotion,
		IsPromotion:    req.IsPromotion,
		Stock:          req.Stock,
		MinStock:       req.MinStock,
		Unit:           req.Unit,
		Brand:          req.Brand,
		Size:           req.Size,
		Color:          req.Color,
		Description:    req.Description,
		Supplier:       req.Supplier,
		ImageURL:       req.ImageURL,
	}
}

func productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		LowStock:  filter.LowStock,
		Inactive:  filter.Inactive,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}
	if filter.Category != "" {
		category, ok := enum.ParseProductCategory(filter.Category)
		if !ok {
			response.BadRequest(c, "Invalid category")
			return
		}
		params.Category = &category
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), productInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// GetBySKU looks a product up by the scanned barcode
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	product, err := h.productService.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req request.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, productInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Deactivate hides a product from the catalog and checkout
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.productService.DeactivateProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deactivated successfully", nil)
}

// Reactivate brings a deactivated product back
func (h *ProductHandler) Reactivate(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.productService.ReactivateProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product reactivated successfully", nil)
}

// GetLowStock handles getting low stock products
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	products, err := h.productService.ListLowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// AdjustStock applies a manual stock correction
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", product)
}

// ListVariations lists the variants of a product
func (h *ProductHandler) ListVariations(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	variations, err := h.productService.ListVariations(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Variations retrieved successfully", variations)
}

// AddVariation attaches a variant to a product
func (h *ProductHandler) AddVariation(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req request.VariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	variation, err := h.productService.AddVariation(c.Request.Context(), id, &service.VariationInput{
		Name:          req.Name,
		Type:          req.Type,
		Stock:         req.Stock,
		SKU:           req.SKU,
		PriceOverride: req.PriceOverride,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Variation created successfully", variation)
}

// DeleteVariation removes a variant
func (h *ProductHandler) DeleteVariation(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	variationID, err := uuid.Parse(c.Param("variation_id"))
	if err != nil {
		response.BadRequest(c, "Invalid variation ID")
		return
	}

	if err := h.productService.DeleteVariation(c.Request.Context(), id, variationID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Export downloads the active catalog as a spreadsheet
func (h *ProductHandler) Export(c *gin.Context) {
	buf, err := h.productService.ExportProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("produtos-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Import upserts products from an uploaded spreadsheet
func (h *ProductHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A spreadsheet must be sent in the 'file' field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Could not open uploaded file")
		return
	}
	defer file.Close()

	result, err := h.productService.ImportProducts(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products imported", result)
}

func bundleInput(req *request.BundleRequest) *service.BundleInput {
	components := make([]service.BundleComponentInput, len(req.Components))
	for i, comp := range req.Components {
		components[i] = service.BundleComponentInput{ProductID: comp.ProductID, Quantity: comp.Quantity}
	}
	return &service.BundleInput{
		SKU:         req.SKU,
		Name:        req.Name,
		PriceSale:   req.PriceSale,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Components:  components,
	}
}

// ListBundles lists every Kit / Combo with its derived stock and savings
func (h *ProductHandler) ListBundles(c *gin.Context) {
	bundles, err := h.productService.ListBundles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bundles retrieved successfully", bundles)
}

// GetBundle returns one bundle
func (h *ProductHandler) GetBundle(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	bundle, err := h.productService.GetBundle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bundle retrieved successfully", bundle)
}

// CreateBundle creates a Kit / Combo
func (h *ProductHandler) CreateBundle(c *gin.Context) {
	var req request.BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bundle, err := h.productService.CreateBundle(c.Request.Context(), bundleInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bundle created successfully", bundle)
}

// UpdateBundle replaces a bundle's fields and components
func (h *ProductHandler) UpdateBundle(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req request.BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bundle, err := h.productService.UpdateBundle(c.Request.Context(), id, bundleInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bundle updated successfully", bundle)
}
