package handler

import (
	"errors"
	"net/http"

	"invoicebook/internal/invoice"
	"invoicebook/internal/middleware"
	"invoicebook/internal/service"
	"invoicebook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// writeError logs err with the request context and answers with a client-safe
// body. Anything that is not a known client error becomes a 500 carrying only
// fallback.
func writeError(c *gin.Context, base zerolog.Logger, err error, fallback string) {
	log := middleware.Logger(c, base)

	var verr *invoice.ValidationError
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &verr):
		log.Warn().Err(err).Str("field", verr.Field).Msg("invalid invoice input")
		c.JSON(http.StatusBadRequest, response.FieldError(http.StatusBadRequest, verr.Field, verr.Error()))
	case errors.Is(err, service.ErrInvoiceNotFound):
		log.Warn().Err(err).Msg("invoice lookup missed")
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Invoice not found"))
	case errors.As(err, &conflict):
		log.Warn().Err(err).Str("invoice_id", conflict.ID).Msg("stale invoice revision")
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, conflict.Error()))
	default:
		event := log.Error().Err(err)
		var perr *service.PersistenceError
		if errors.As(err, &perr) {
			event = event.Str("op", perr.Op)
		}
		event.Msg(fallback)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, fallback))
	}
}
