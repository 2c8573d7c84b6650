package handler

import (
	"net/http"

	"invoicebook/internal/service"
	"invoicebook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	log            zerolog.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		log:            log,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices")
	{
		invoices.GET("", h.ListInvoices)
		invoices.POST("", h.CreateInvoice)
		invoices.GET("/view", h.ViewInvoices)
		invoices.GET("/dashboard", h.Dashboard)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id", h.UpdateInvoice)
	}
}

// ListInvoices returns invoices newest first, optionally filtered
// @Summary      List invoices
// @Description  Lists up to 200 invoices, most recently created first. q filters by id, code or customer name (case-insensitive substring).
// @Tags         invoices
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {array}   invoice.Invoice
// @Failure      500  {object}  response.Response
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	rows, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, h.log, err, "Failed to fetch invoices")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CreateInvoice validates and stores a new invoice
// @Summary      Create invoice
// @Description  Normalizes the payload, derives quarter and search fields, and stores it
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        payload  body      object  true  "Invoice fields"
// @Success      201      {object}  invoice.Invoice
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	created, err := h.invoiceService.CreateInvoice(c.Request.Context(), raw)
	if err != nil {
		writeError(c, h.log, err, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetInvoice returns one invoice
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoice.Invoice
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err, "Failed to fetch invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// UpdateInvoice replaces a subset of an invoice's fields
// @Summary      Update invoice
// @Description  Applies the allow-listed fields present in the body. An optional revision must match the stored one.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Invoice ID"
// @Param        payload  body      object  true  "Fields to replace"
// @Success      200      {object}  invoice.Invoice
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	updated, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		writeError(c, h.log, err, "Failed to update invoice")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ViewInvoices returns filtered, sorted rows and their totals
// @Summary      Invoice view
// @Tags         invoices
// @Produce      json
// @Param        q     query     string  false  "Search text"
// @Param        sort  query     string  false  "id, code, customerName, issueDate, paid, amountExcl, vat, taxe, total, createdAt"
// @Param        dir   query     string  false  "asc or desc"
// @Success      200   {object}  invoice.Result
// @Failure      400   {object}  response.Response
// @Router       /invoices/view [get]
func (h *InvoiceHandler) ViewInvoices(c *gin.Context) {
	res, err := h.invoiceService.ViewInvoices(c.Request.Context(), viewRequest(c))
	if err != nil {
		writeError(c, h.log, err, "Failed to fetch invoices")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Dashboard is ViewInvoices restricted to the current quarter
// @Summary      Current quarter dashboard
// @Tags         invoices
// @Produce      json
// @Param        q     query     string  false  "Search text"
// @Param        sort  query     string  false  "Sort field"
// @Param        dir   query     string  false  "asc or desc"
// @Success      200   {object}  invoice.Result
// @Failure      400   {object}  response.Response
// @Router       /invoices/dashboard [get]
func (h *InvoiceHandler) Dashboard(c *gin.Context) {
	res, err := h.invoiceService.Dashboard(c.Request.Context(), viewRequest(c))
	if err != nil {
		writeError(c, h.log, err, "Failed to fetch invoices")
		return
	}
	c.JSON(http.StatusOK, res)
}

func viewRequest(c *gin.Context) service.ViewRequest {
	return service.ViewRequest{
		Query:     c.Query("q"),
		SortField: c.Query("sort"),
		Direction: c.Query("dir"),
	}
}
