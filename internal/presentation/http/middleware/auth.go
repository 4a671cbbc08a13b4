package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/presentation/http/dto/response"
	"github.com/primake/primake-api/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)

		c.Next()
	}
}

// RequireRole allows the request through only for the listed roles
func RequireRole(roles ...enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user_role")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}
		role, ok := value.(enum.Role)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// Role groups used by the route table
var (
	Managers   = []enum.Role{enum.RoleAdministrador, enum.RoleGerente}
	Stockroom  = []enum.Role{enum.RoleAdministrador, enum.RoleGerente, enum.RoleEstoquista}
	Checkout   = []enum.Role{enum.RoleAdministrador, enum.RoleGerente, enum.RoleVendedor, enum.RoleCaixa}
	Dispatch   = []enum.Role{enum.RoleAdministrador, enum.RoleGerente, enum.RoleVendedor, enum.RoleCaixa, enum.RoleMotoboy}
	AdminsOnly = []enum.Role{enum.RoleAdministrador}
)
