package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/application/service"
	"github.com/primake/primake-api/internal/presentation/http/dto/request"
	"github.com/primake/primake-api/internal/presentation/http/dto/response"
)

// CashRegisterHandler handles the cash drawer session
type CashRegisterHandler struct {
	cashService *service.CashRegisterService
}

// NewCashRegisterHandler creates a new cash register handler
func NewCashRegisterHandler(cashService *service.CashRegisterService) *CashRegisterHandler {
	return &CashRegisterHandler{cashService: cashService}
}

// Open starts a session
func (h *CashRegisterHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	register, err := h.cashService.OpenRegister(c.Request.Context(), *userID, req.OpeningBalance)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash register opened", register)
}

// Current returns the open session with its movements and totals
func (h *CashRegisterHandler) Current(c *gin.Context) {
	view, err := h.cashService.CurrentRegister(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash register retrieved successfully", view)
}

// Get returns any session by ID
func (h *CashRegisterHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cash register ID")
		return
	}

	view, err := h.cashService.GetRegister(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash register retrieved successfully", view)
}

// List returns past and current sessions
func (h *CashRegisterHandler) List(c *gin.Context) {
	result, err := h.cashService.ListRegisters(c.Request.Context(), pageParams(c, 15))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Cash registers retrieved successfully", result)
}

// AddMovement records a withdrawal or supply
func (h *CashRegisterHandler) AddMovement(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	movement, err := h.cashService.AddMovement(c.Request.Context(), &service.MovementInput{
		UserID:      *userID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Movement recorded", movement)
}

// Close ends the session with the counted drawer amount
func (h *CashRegisterHandler) Close(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cashService.CloseRegister(c.Request.Context(), &service.CloseInput{
		UserID:         *userID,
		ClosingBalance: req.ClosingBalance,
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash register closed", view)
}
