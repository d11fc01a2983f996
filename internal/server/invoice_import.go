package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invoiceimportdomain "github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
)

func (s *Server) ValidateInvoiceImport(c *gin.Context) {
	raw, ok := bindDraft(c)
	if !ok {
		return
	}

	resp, err := s.invoiceImportSvc.Validate(c.Request.Context(), raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmInvoiceImport(c *gin.Context) {
	raw, ok := bindDraft(c)
	if !ok {
		return
	}

	resp, err := s.invoiceImportSvc.Confirm(c.Request.Context(), raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// bindDraft decodes the body untyped; the import pipeline does its own
// shape checks.
func bindDraft(c *gin.Context) (any, bool) {
	var raw any
	if err := c.ShouldBindJSON(&raw); err != nil {
		AbortWithError(c, invoiceimportdomain.NewPayloadError(invoiceimportdomain.MessageInvalidPayload))
		return nil, false
	}
	return raw, true
}
