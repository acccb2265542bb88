package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/craffles/raffle-backend/internal/config"
	"github.com/craffles/raffle-backend/internal/handlers"
	"github.com/craffles/raffle-backend/internal/middleware"
)

// HandlerDependencies carries the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler    *handlers.AuthHandler
	RaffleHandler  *handlers.RaffleHandler
	AccountHandler *handlers.AccountHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		raffles := public.Group("/raffles")
		{
			raffles.GET("", deps.RaffleHandler.GetRaffles)
			raffles.GET("/:address", deps.RaffleHandler.GetRaffle)
			raffles.GET("/:address/log", deps.RaffleHandler.GetLogState)
			raffles.GET("/:address/certificates", deps.RaffleHandler.GetCertificates)
			raffles.POST("/:address/tickets", deps.RaffleHandler.BuyTickets)
		}

		accounts := public.Group("/accounts")
		{
			accounts.POST("", deps.AccountHandler.CreateAccount)
			accounts.GET("/:address", deps.AccountHandler.GetAccount)
			accounts.POST("/:address/deposits", deps.AccountHandler.Deposit)
		}
	}

	// Protected routes: raffle creation requires an authenticated
	// organizer.
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.POST("/raffles", deps.RaffleHandler.CreateRaffle)
	}

	return router
}
