package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/controllers"
)

func SetupUserRoutes(api *gin.RouterGroup, authController *controllers.AuthController) {
	users := api.Group("/users")
	{
		users.POST("", authController.Register)
		users.POST("/login", authController.Login)
		users.POST("/refresh-token", authController.RefreshToken)
	}
}
