package handler

import (
	"net/http"

	"invoicebook/internal/repository"
	"invoicebook/internal/service"
	"invoicebook/pkg/pagination"
	"invoicebook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuditHandler struct {
	auditService service.AuditService
	log          zerolog.Logger
}

func NewAuditHandler(auditService service.AuditService, log zerolog.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, log: log}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs", h.GetAuditLogs)
	router.GET("/invoices/:id/history", h.GetInvoiceHistory)
}

// GetAuditLogs returns invoice write history, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Produce      json
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Param        invoice_id  query     string  false  "Only entries of this invoice"
// @Param        action      query     string  false  "CREATE_INVOICE or UPDATE_INVOICE"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	filter := repository.AuditFilter{
		InvoiceID: c.Query("invoice_id"),
		Action:    c.Query("action"),
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		writeError(c, h.log, err, "Failed to retrieve audit logs")
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"logs": logs,
		"meta": p.Meta(total),
	}))
}

// GetInvoiceHistory returns the writes of one invoice, newest first
// @Summary      Invoice history
// @Tags         audit
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {array}   service.AuditLogResponse
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id}/history [get]
func (h *AuditHandler) GetInvoiceHistory(c *gin.Context) {
	history, err := h.auditService.InvoiceHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err, "Failed to retrieve invoice history")
		return
	}
	c.JSON(http.StatusOK, history)
}
