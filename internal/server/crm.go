package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetCrmSnapshot(c *gin.Context) {
	resp, err := s.snapshotSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRegistries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"semantic":   s.semantic,
		"capability": s.capability,
	}})
}
