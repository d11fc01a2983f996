package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerTokenRequired accepts only "Authorization: Bearer <API_TOKEN>".
func (s *Server) BearerTokenRequired() gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(s.cfg.APIToken))

	return func(c *gin.Context) {
		if len(expected) == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), expected) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
