package router

import (
	"github.com/gin-gonic/gin"

	"github.com/hrcamilo11/upblioteca-core/internal/auth"
	"github.com/hrcamilo11/upblioteca-core/internal/logger"
	"github.com/hrcamilo11/upblioteca-core/internal/publications"
	"github.com/hrcamilo11/upblioteca-core/internal/users"
)

// Setup wires every route onto a fresh engine. Tests drive the same
// engine through httptest.
func Setup() *gin.Engine {
	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	u := api.Group("/users")
	{
		u.POST("/register", users.RegisterHandler)
		u.POST("/login", auth.LoginHandler)
		u.GET("/me", auth.RequireAuth(), auth.MeHandler)
		u.GET("/:id", users.GetUserHandler)
		u.PUT("/:id", auth.RequireAuth(), users.UpdateProfileHandler)
		u.DELETE("/:id", auth.RequireAuth(), users.DeleteUserHandler)
	}

	p := api.Group("/publications")
	{
		p.GET("", publications.ListPublicationsHandler)
		p.GET("/featured", publications.ListFeaturedHandler)
		p.GET("/search", publications.SearchPublicationsHandler)
		p.GET("/:id", publications.GetPublicationHandler)
		p.GET("/:id/file", publications.GetPublicationFileHandler)
		p.POST("", auth.RequireAuth(), publications.CreatePublicationHandler)
		p.PUT("/:id", auth.RequireAuth(), publications.UpdatePublicationHandler)
		p.DELETE("/:id", auth.RequireAuth(), publications.DeletePublicationHandler)
		p.POST("/:id/rate", auth.RequireAuth(), publications.RatePublicationHandler)
		p.POST("/:id/download", publications.DownloadPublicationHandler)
	}

	return r
}
