package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/application/service"
	"github.com/primake/primake-api/internal/domain/dispatch"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/pagination"
)

// Context keys set by the auth middleware
const (
	ContextUserID    = "user_id"
	ContextUserName  = "user_name"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserName extracts the display name from the Gin context
func GetUserName(c *gin.Context) string {
	return c.GetString(ContextUserName)
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}

// GetUserRole extracts the role from the Gin context. ok is false when the
// request was not authenticated.
func GetUserRole(c *gin.Context) (enum.Role, bool) {
	v, exists := c.Get(ContextUserRole)
	if !exists {
		return 0, false
	}
	role, ok := v.(enum.Role)
	return role, ok
}

// commissionViewer builds the viewer used by goal and dashboard figures
func commissionViewer(c *gin.Context) service.Viewer {
	v := service.Viewer{Name: GetUserName(c)}
	if id := GetUserID(c); id != nil {
		v.UserID = *id
	}
	v.Role, _ = GetUserRole(c)
	return v
}

// deliveryViewer builds the viewer used to restrict delivery listings
func deliveryViewer(c *gin.Context) dispatch.Viewer {
	role, _ := GetUserRole(c)
	return dispatch.Viewer{Name: GetUserName(c), Role: role}
}

// pageParams reads page and per_page from the query string
func pageParams(c *gin.Context, defaultPerPage int) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}
