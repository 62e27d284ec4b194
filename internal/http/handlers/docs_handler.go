package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/pemesanan/:id/e-ticket returns the PDF inline.
func (h Handler) GetETicketPDF(c *gin.Context) {
	pdfBytes, filename, err := h.Tickets.ETicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
