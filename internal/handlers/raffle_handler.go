package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/services"
)

// RaffleHandler handles raffle-related HTTP requests
type RaffleHandler struct {
	raffleService services.RaffleService
	saleService   services.SaleService
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService services.RaffleService, saleService services.SaleService) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
		saleService:   saleService,
	}
}

// CreateRaffle handles POST /raffles. The organizer identity comes from
// the authenticated token, not the request body.
func (h *RaffleHandler) CreateRaffle(c *gin.Context) {
	var req models.CreateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	organizer := c.GetString("organizerAddress")
	if organizer == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing organizer identity"})
		return
	}

	raffle, err := h.raffleService.CreateRaffle(c, organizer, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, raffle)
}

// GetRaffle handles GET /raffles/:address
func (h *RaffleHandler) GetRaffle(c *gin.Context) {
	raffle, err := h.raffleService.GetRaffle(c, c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// GetRaffles handles GET /raffles
func (h *RaffleHandler) GetRaffles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	raffles, err := h.raffleService.GetRaffles(c, page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffles)
}

// GetLogState handles GET /raffles/:address/log
func (h *RaffleHandler) GetLogState(c *gin.Context) {
	state, err := h.raffleService.GetLogState(c, c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetCertificates handles GET /raffles/:address/certificates?owner=
func (h *RaffleHandler) GetCertificates(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner query parameter is required"})
		return
	}

	certificates, err := h.raffleService.GetCertificates(c, c.Param("address"), owner)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, certificates)
}

// BuyTickets handles POST /raffles/:address/tickets
func (h *RaffleHandler) BuyTickets(c *gin.Context) {
	var req models.BuyTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	certificateIDs, err := h.saleService.BuyTickets(c, c.Param("address"), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"certificateIds": certificateIDs})
}
