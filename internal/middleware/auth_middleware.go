package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/DistriaGit/distria_api/internal/utils"
)

// AuthMiddleware validates the bearer token and injects the tenant identity
// (distributor_id, salesperson_id) into the request context. Downstream
// handlers and tools read tenant identity only from here.
type AuthMiddleware struct {
	jwtSecret []byte
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret)}
}

// Handle returns the gin handler enforcing authentication.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid token claims")
			c.Abort()
			return
		}

		salespersonID, okSub := claimInt(claims, "sub")
		distributorID, okDist := claimInt(claims, "distributor_id")
		if !okSub || !okDist {
			utils.Error(c, 401, "INVALID_TOKEN", "Token missing tenant claims")
			c.Abort()
			return
		}

		c.Set("salesperson_id", salespersonID)
		c.Set("distributor_id", distributorID)
		c.Next()
	}
}

// claimInt reads a numeric claim; JSON numbers decode as float64.
func claimInt(claims jwt.MapClaims, key string) (int, bool) {
	v, ok := claims[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
