package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/application/service"
	"github.com/primake/primake-api/internal/presentation/http/dto/request"
	"github.com/primake/primake-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func customerInput(c *gin.Context) (*service.CustomerInput, bool) {
	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return nil, false
	}

	input := &service.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		CPF:     req.CPF,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Notes:   req.Notes,
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			response.BadRequest(c, "birth_date must be YYYY-MM-DD")
			return nil, false
		}
		input.BirthDate = &birth
	}
	return input, true
}

func customerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return uuid.Nil, false
	}
	return id, true
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	inactive, _ := strconv.ParseBool(c.DefaultQuery("inactive", "false"))

	result, err := h.customerService.ListCustomers(c.Request.Context(), pageParams(c, 15), c.Query("search"), inactive)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	input, ok := customerInput(c)
	if !ok {
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// GetByPhone finds a customer by phone number
func (h *CustomerHandler) GetByPhone(c *gin.Context) {
	customer, err := h.customerService.GetCustomerByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	input, ok := customerInput(c)
	if !ok {
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Deactivate hides a customer
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeactivateCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer deactivated successfully", nil)
}

// Reactivate restores a deactivated customer
func (h *CustomerHandler) Reactivate(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	if err := h.customerService.ReactivateCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer reactivated successfully", nil)
}
