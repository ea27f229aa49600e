package api

import (
	"fasohabita/server/internal/auth"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with middleware and all routes
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(h.logger))
	router.Use(corsMiddleware(h.config.Server.CORSOrigins))
	router.Use(auth.Middleware(h.sessions, h.config.Auth.CookieName))

	SetupRoutes(router, h)
	return router
}

func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/healthz", h.Health)

	api := router.Group("/api")
	{
		api.GET("/listings", h.GetListings)
		api.GET("/listings/:id", h.GetListing)

		api.GET("/login", h.Login)
		api.GET("/callback", h.Callback)
		api.GET("/logout", h.Logout)
	}

	authed := api.Group("", auth.RequireUser())
	{
		authed.GET("/auth/user", h.CurrentUser)
		authed.GET("/me/listings", h.GetMyListings)
		authed.POST("/listings", h.CreateListing)
		authed.PUT("/listings/:id", h.UpdateListing)
		authed.DELETE("/listings/:id", h.DeleteListing)
	}

	if h.storage != nil {
		authed.POST("/uploads/request-url", h.RequestUploadURL)
		router.GET("/objects/*objectPath", h.ServeObject)
	}
}
