package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craffles/raffle-backend/internal/models"
)

// statusFor maps the domain error taxonomy to HTTP statuses, so clients
// can tell retryable conditions (payment underfunded) from terminal ones
// (deadline passed, address taken).
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrRaffleNotFound),
		errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrCertificateLogNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRaffleEnded):
		return http.StatusGone
	case errors.Is(err, models.ErrRaffleExists),
		errors.Is(err, models.ErrAccountExists),
		errors.Is(err, models.ErrCertificateLogExists),
		errors.Is(err, models.ErrCertificateLogFull):
		return http.StatusConflict
	case errors.Is(err, models.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrUnauthorizedTransfer):
		return http.StatusForbidden
	case errors.Is(err, models.ErrMaxEntrantsTooLarge),
		errors.Is(err, models.ErrInvalidCalculation),
		errors.Is(err, models.ErrInvalidAccountData),
		errors.Is(err, models.ErrCurrencyMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the mapped status and the error message.
func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
