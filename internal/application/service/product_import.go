package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/money"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const catalogSheet = "Produtos"

// catalogColumns is the workbook layout shared by export and import
var catalogColumns = []string{
	"SKU", "Nome", "Categoria", "Preço Custo", "Preço Venda", "Preço Promocional",
	"Em Promoção", "Estoque", "Estoque Mínimo", "Unidade", "Marca", "Fornecedor",
}

const (
	colSKU = iota
	colName
	colCategory
	colPriceCost
	colPriceSale
	colPricePromotion
	colIsPromotion
	colStock
	colMinStock
	colUnit
	colBrand
	colSupplier
)

// ImportResult contains the result of a catalog import
type ImportResult struct {
	TotalRows int              `json:"total_rows"`
	Created   int              `json:"created"`
	Updated   int              `json:"updated"`
	Failed    int              `json:"failed"`
	Errors    []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ExportProducts writes the active catalog (bundles excluded) as an xlsx workbook
func (s *ProductService) ExportProducts(ctx context.Context) (*bytes.Buffer, error) {
	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", catalogSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(catalogColumns))
	for i, c := range catalogColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(catalogSheet, "A1", &header); err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(catalogSheet, 1, 1, style)
	}

	row := 2
	for i := range products {
		p := &products[i]
		if p.IsBundle() {
			continue
		}
		var promo interface{}
		if p.PricePromotion != nil {
			promo = money.ToFloat(*p.PricePromotion)
		}
		values := []interface{}{
			p.SKU, p.Name, p.Category.String(),
			money.ToFloat(p.PriceCost), money.ToFloat(p.PriceSale), promo,
			yesNo(p.IsPromotion), p.Stock, p.MinStock, p.Unit,
			deref(p.Brand), deref(p.Supplier),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(catalogSheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	return f.WriteToBuffer()
}

// ImportProducts reads a workbook in the export layout and upserts each row by SKU.
// Invalid rows are reported and skipped; valid rows are still applied.
func (s *ProductService) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid spreadsheet: " + err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewBadRequestError("Spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewBadRequestError("Could not read spreadsheet: " + err.Error())
	}
	if len(rows) < 2 {
		return &ImportResult{}, nil
	}

	result := &ImportResult{}
	seen := make(map[string]int)

	for i, cells := range rows[1:] {
		rowNum := i + 2 // row 1 is the header
		if blankRow(cells) {
			continue
		}
		result.TotalRows++

		product, rowErr := parseCatalogRow(cells, rowNum)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		key := strings.ToLower(product.SKU)
		if prev, dup := seen[key]; dup {
			result.Errors = append(result.Errors, ImportRowError{
				Row: rowNum, Field: "sku",
				Message: fmt.Sprintf("Duplicate SKU '%s' (same as row %d)", product.SKU, prev),
			})
			continue
		}
		seen[key] = rowNum

		created, err := s.productRepo.UpsertBySKU(ctx, product)
		if err != nil {
			s.log.Warn("catalog import row failed", zap.Int("row", rowNum), zap.String("sku", product.SKU), zap.Error(err))
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "sku", Message: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
		s.invalidateSKU(ctx, product.SKU)
	}

	result.Failed = len(result.Errors)
	return result, nil
}

func parseCatalogRow(cells []string, rowNum int) (*entity.Product, *ImportRowError) {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	fail := func(field, msg string) *ImportRowError {
		return &ImportRowError{Row: rowNum, Field: field, Message: msg}
	}

	p := &entity.Product{
		SKU:      cell(colSKU),
		Name:     cell(colName),
		Unit:     cell(colUnit),
		IsActive: true,
	}
	if p.SKU == "" {
		return nil, fail("sku", "SKU is required")
	}
	if p.Name == "" {
		return nil, fail("name", "Name is required")
	}
	if p.Unit == "" {
		p.Unit = "un"
	}

	if c := cell(colCategory); c != "" {
		category, ok := enum.ParseProductCategory(c)
		if !ok {
			return nil, fail("category", fmt.Sprintf("Unknown category '%s'", c))
		}
		if category == enum.CategoryBundle {
			return nil, fail("category", "Kit / Combo cannot be imported")
		}
		p.Category = category
	}

	var err error
	if p.PriceCost, err = parseCents(cell(colPriceCost)); err != nil {
		return nil, fail("price_cost", err.Error())
	}
	if p.PriceSale, err = parseCents(cell(colPriceSale)); err != nil {
		return nil, fail("price_sale", err.Error())
	}
	if c := cell(colPricePromotion); c != "" {
		promo, err := parseCents(c)
		if err != nil {
			return nil, fail("price_promotion", err.Error())
		}
		p.PricePromotion = &promo
	}
	p.IsPromotion = parseYes(cell(colIsPromotion))

	if p.Stock, err = parseCount(cell(colStock)); err != nil {
		return nil, fail("stock", err.Error())
	}
	if p.MinStock, err = parseCount(cell(colMinStock)); err != nil {
		return nil, fail("min_stock", err.Error())
	}

	if b := cell(colBrand); b != "" {
		p.Brand = &b
	}
	if sup := cell(colSupplier); sup != "" {
		p.Supplier = &sup
	}
	return p, nil
}

// parseCents accepts "12.50", "12,50" and "1.234,50"
func parseCents(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount '%s'", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return money.FromFloat(v), nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("invalid quantity '%s'", s)
	}
	return int(v), nil
}

func parseYes(s string) bool {
	switch strings.ToLower(s) {
	case "sim", "s", "yes", "true", "1", "x":
		return true
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
