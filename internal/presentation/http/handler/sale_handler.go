package handler

import (
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

const queryDateLayout = "2006-01-02"

// SaleHandler handles checkout and sale history requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Complete handles a checkout
func (h *SaleHandler) Complete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CompleteSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Quantity:    item.Quantity,
		}
	}
	payments := make([]service.PaymentPartInput, len(req.Payments))
	for i, p := range req.Payments {
		payments[i] = service.PaymentPartInput{
			Method:       *p.Method,
			Amount:       p.Amount,
			Installments: p.Installments,
		}
	}

	result, err := h.saleService.CompleteSale(c.Request.Context(), &service.CompleteSaleInput{
		SellerID:        *userID,
		SellerName:      GetUserName(c),
		CustomerID:      req.CustomerID,
		Items:           items,
		DiscountPercent: req.DiscountPercent,
		IsDelivery:      req.IsDelivery,
		DeliveryFee:     req.DeliveryFee,
		MotoboyName:     req.MotoboyName,
		PaymentMethod:   req.PaymentMethod,
		Installments:    req.Installments,
		Payments:        payments,
		CashReceived:    req.CashReceived,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Sale completed successfully"
	if len(result.Warnings) > 0 {
		message = "Sale completed with warnings"
	}
	response.Created(c, message, result)
}

// parseDay reads a YYYY-MM-DD query value. An empty value yields nil.
func parseDay(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(queryDateLayout, value, time.Local)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// List handles the sales history with page or cursor pagination
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var status *enum.SaleStatus
	if filter.Status != "" {
		s, ok := enum.ParseSaleStatus(filter.Status)
		if !ok {
			response.BadRequest(c, "Invalid sale status")
			return
		}
		status = &s
	}
	var customerID, sellerID *uuid.UUID
	for _, f := range []struct {
		raw string
		dst **uuid.UUID
	}{{filter.CustomerID, &customerID}, {filter.SellerID, &sellerID}} {
		if f.raw == "" {
			continue
		}
		id, err := uuid.Parse(f.raw)
		if err != nil {
			response.BadRequest(c, "Invalid ID filter")
			return
		}
		*f.dst = &id
	}
	start, err := parseDay(filter.StartDate)
	if err != nil {
		response.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := parseDay(filter.EndDate)
	if err != nil {
		response.BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}
	if end != nil {
		next := end.AddDate(0, 0, 1)
		end = &next
	}

	// a seller only browses their own history
	if role, _ := GetUserRole(c); role.CommissionOnOwnSales() {
		sellerID = GetUserID(c)
	}

	ctx := c.Request.Context()
	if filter.Cursor != "" || filter.Limit > 0 {
		result, err := h.saleService.ListSalesWithCursor(ctx, &repository.SaleCursorFilterParams{
			Cursor: &pagination.CursorParams{
				Cursor:    filter.Cursor,
				Direction: pagination.CursorDirection(filter.Direction),
				Limit:     filter.Limit,
			},
			Search:     filter.Search,
			Status:     status,
			CustomerID: customerID,
			SellerID:   sellerID,
			StartDate:  start,
			EndDate:    end,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Sales retrieved successfully", result)
		return
	}

	result, err := h.saleService.ListSales(ctx, &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		Status:     status,
		CustomerID: customerID,
		SellerID:   sellerID,
		StartDate:  start,
		EndDate:    end,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// Today lists today's sales. Sellers see only their own.
func (h *SaleHandler) Today(c *gin.Context) {
	var sellerID *uuid.UUID
	if role, _ := GetUserRole(c); role.CommissionOnOwnSales() {
		sellerID = GetUserID(c)
	}

	sales, err := h.saleService.ListTodaySales(c.Request.Context(), sellerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales retrieved successfully", sales)
}

// Get returns one sale with items and payment parts
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Update edits status, payment label or notes of a completed sale
func (h *SaleHandler) Update(c *gin.Context) {
	role, ok := GetUserRole(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), role, c.Param("id"), &service.UpdateSaleInput{
		Status:       req.Status,
		PaymentLabel: req.PaymentMethod,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", sale)
}
