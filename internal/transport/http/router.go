package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cep-connect4/backend/internal/transport/http/middleware"
)

type RouterDeps struct {
	AllowedOrigins []string
	Addresses      *AddressHandler
	History        *HistoryHandler
	Tables         *TablesHandler
	WebSocket      http.HandlerFunc
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.GET("/palette", GetPalette)

		// Address lookup
		api.GET("/cep/:code", deps.Addresses.Lookup)
		api.GET("/cep/:code/timeout", deps.Addresses.LookupWithTimeout)
		api.POST("/cep/batch", deps.Addresses.LookupBatch)
		api.POST("/addresses", deps.Addresses.Save)
		api.GET("/addresses/:id", deps.Addresses.Get)

		// Tables and archive
		api.GET("/tables", deps.Tables.GetLiveTables)
		api.GET("/tables/:id", deps.Tables.GetTable)
		api.GET("/history", deps.History.GetHistory)
		api.GET("/history/:id", deps.History.GetGameDetails)
	}

	if deps.WebSocket != nil {
		router.GET("/ws", gin.WrapF(deps.WebSocket))
	}

	return router
}
