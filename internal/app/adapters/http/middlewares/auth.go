package middlewares

import (
	"crypto/subtle"
	"github.com/gin-gonic/gin"
	"net/http"
	"strings"
)

type Middlewares struct{}

func New() *Middlewares {
	return &Middlewares{}
}

// AdminAuth is basic auth as "admin" with the token as password. An empty
// token locks the route instead of accepting a blank password.
func (m *Middlewares) AdminAuth(token string) gin.HandlerFunc {
	if token == "" {
		return func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		}
	}
	return gin.BasicAuth(gin.Accounts{"admin": token})
}

// Auth requires "Authorization: Bearer <expected>". An empty expected token
// locks the route.
func (m *Middlewares) Auth(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if expected == "" || !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(strings.TrimPrefix(auth, "Bearer ")), []byte(expected)) != 1 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
