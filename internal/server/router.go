package server

import (
	"net/http"

	"github.com/dzyusuf20/voting-appAPI/internal/config"
	"github.com/dzyusuf20/voting-appAPI/internal/handlers"
	"github.com/dzyusuf20/voting-appAPI/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	handlers.Init(cfg)

	r := gin.Default()

	// frontend is served elsewhere; open CORS like the rest of the API
	r.Use(cors.Default())
	r.Use(middleware.InjectUser(cfg.JWTSecret))

	// AUTH
	r.POST("/token/", handlers.ObtainToken)
	r.POST("/token/refresh/", handlers.RefreshToken)
	r.POST("/register-admin/", handlers.RegisterAdmin)

	authed := r.Group("/", middleware.RequireAuth())
	authed.GET("/me/", handlers.Me)
	authed.POST("/change-password/", handlers.ChangePassword)

	// ADMIN ROOM MANAGEMENT
	admin := r.Group("/", middleware.RequireAuth(), middleware.RequireAdmin())
	admin.POST("/generate-peserta/", handlers.GeneratePeserta)
	admin.GET("/peserta/", handlers.ListPeserta)
	admin.DELETE("/peserta/:id/", handlers.DeletePeserta)
	admin.POST("/kandidat/", handlers.CreateKandidat)
	admin.PUT("/kandidat/:id/", handlers.UpdateKandidat)
	admin.DELETE("/kandidat/:id/", handlers.DeleteKandidat)

	// PUBLIC READS (admin / peserta / anonymous with ?admin=)
	r.GET("/kandidat/", handlers.ListKandidat)
	r.GET("/kandidat/:id/", handlers.RetrieveKandidat)
	r.GET("/hasil/", handlers.Hasil)

	// VOTING
	vote := r.Group("/", middleware.RequireAuth(), middleware.RequirePeserta())
	vote.POST("/vote/", handlers.CastVote)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
