package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	quoteemaildomain "github.com/smallbiznis/gestionale/internal/quoteemail/domain"
	"github.com/smallbiznis/gestionale/internal/quoteemail/template"
)

func (s *Server) ListQuoteEmailTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": template.Definitions(s.semantic)})
}

func (s *Server) PreviewQuoteStatusEmail(c *gin.Context) {
	resp, err := s.quoteEmailSvc.Preview(c.Request.Context(), c.Param("id"), strings.TrimSpace(c.Query("status")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type sendQuoteStatusEmailRequest struct {
	Mode          string `json:"mode"`
	Status        string `json:"status"`
	CustomMessage string `json:"customMessage"`
}

func (s *Server) SendQuoteStatusEmail(c *gin.Context) {
	var req sendQuoteStatusEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteEmailSvc.Send(c.Request.Context(), quoteemaildomain.SendRequest{
		QuoteID:       c.Param("id"),
		Mode:          quoteemaildomain.SendMode(strings.TrimSpace(req.Mode)),
		Status:        strings.TrimSpace(req.Status),
		CustomMessage: req.CustomMessage,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
