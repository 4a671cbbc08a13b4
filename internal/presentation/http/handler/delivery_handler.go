package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/primake/primake-api/internal/application/service"
	"github.com/primake/primake-api/internal/domain/dispatch"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/presentation/http/dto/request"
	"github.com/primake/primake-api/internal/presentation/http/dto/response"
)

// DeliveryHandler handles delivery tracking and courier payouts
type DeliveryHandler struct {
	deliveryService *service.DeliveryService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// List returns the deliveries visible to the caller, filtered by tab and search
func (h *DeliveryHandler) List(c *gin.Context) {
	var req request.DeliveryFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	bucket, ok := dispatch.ParseBucket(req.Method)
	if !ok {
		response.BadRequest(c, "method must be all, local or dispatch")
		return
	}
	view, ok := dispatch.ParseViewMode(req.View)
	if !ok {
		response.BadRequest(c, "view must be all, active or history")
		return
	}

	deliveries, err := h.deliveryService.ListDeliveries(c.Request.Context(), dispatch.Filter{
		Search: req.Search,
		Bucket: bucket,
		View:   view,
		Date:   req.Date,
	}, deliveryViewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deliveries retrieved successfully", deliveries)
}

// Create records a manual delivery order
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req request.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	delivery, err := h.deliveryService.CreateDelivery(c.Request.Context(), &service.CreateDeliveryInput{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		Source:       req.Source,
		Method:       req.Method,
		ItemsSummary: req.ItemsSummary,
		TotalValue:   req.TotalValue,
		Fee:          req.Fee,
		MotoboyName:  req.MotoboyName,
		TrackingCode: req.TrackingCode,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Delivery created successfully", delivery)
}

// Get returns one delivery
func (h *DeliveryHandler) Get(c *gin.Context) {
	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), c.Param("id"), deliveryViewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery retrieved successfully", delivery)
}

// Update changes status, notes, courier or tracking code
func (h *DeliveryHandler) Update(c *gin.Context) {
	var req request.UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	delivery, err := h.deliveryService.UpdateDelivery(c.Request.Context(), c.Param("id"), deliveryViewer(c), &service.UpdateDeliveryInput{
		Status:       req.Status,
		Notes:        req.Notes,
		MotoboyName:  req.MotoboyName,
		TrackingCode: req.TrackingCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery updated successfully", delivery)
}

// Delete removes a delivery
func (h *DeliveryHandler) Delete(c *gin.Context) {
	if err := h.deliveryService.DeleteDelivery(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// WhatsApp returns the wa.me link that messages the customer
func (h *DeliveryHandler) WhatsApp(c *gin.Context) {
	link, err := h.deliveryService.WhatsAppLink(c.Request.Context(), c.Param("id"), deliveryViewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "WhatsApp link generated", gin.H{"url": link})
}

// Payouts aggregates courier fees by motoboy
func (h *DeliveryHandler) Payouts(c *gin.Context) {
	status := enum.PayoutPending
	if raw := c.Query("status"); raw != "" {
		parsed, ok := enum.ParsePayoutStatus(raw)
		if !ok {
			response.BadRequest(c, "status must be Pending or Paid")
			return
		}
		status = parsed
	}

	report, err := h.deliveryService.PayoutReport(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payout report retrieved successfully", report)
}

// PayoutDeliveries lists the pending orders of one courier
func (h *DeliveryHandler) PayoutDeliveries(c *gin.Context) {
	deliveries, err := h.deliveryService.PayoutDeliveries(c.Request.Context(), c.Query("motoboy"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payout deliveries retrieved successfully", deliveries)
}

// MarkPaid settles a courier's pending payout
func (h *DeliveryHandler) MarkPaid(c *gin.Context) {
	var req request.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.deliveryService.MarkPayoutPaid(c.Request.Context(), req.Motoboy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payout marked as paid", result)
}
