package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/controllers"
)

func SetupInteractionRoutes(api *gin.RouterGroup, interactionController *controllers.InteractionController) {
	posts := api.Group("/posts")
	{
		posts.POST("/:id/like", interactionController.LikePost)
	}
}
