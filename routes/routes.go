package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/postboard/api-go/controllers"
	"github.com/postboard/api-go/middleware"
	"github.com/postboard/api-go/services"
	"github.com/postboard/api-go/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB        *gorm.DB
	Posts     *services.PostService
	Listing   *services.Listing
	Tokens    *utils.TokenIssuer
	Readiness func() error
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		services.UseJSONFieldNames(v)
	}

	r.Use(middleware.RequestLogger(), middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		if deps.Readiness != nil {
			if err := deps.Readiness(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(deps.DB, deps.Tokens)
	postController := controllers.NewPostController(deps.Posts, deps.Listing)
	interactionController := controllers.NewInteractionController(deps.Posts)

	// Identity is optional at this layer; handlers and services reject
	// anonymous callers where an identity is needed.
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		SetupUserRoutes(api, authController)
		SetupPostRoutes(api, postController)
		SetupInteractionRoutes(api, interactionController)
	}
}
