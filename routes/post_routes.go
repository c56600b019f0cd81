package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/controllers"
)

func SetupPostRoutes(api *gin.RouterGroup, postController *controllers.PostController) {
	posts := api.Group("/posts")
	{
		posts.GET("", postController.ListPosts)
		posts.POST("", postController.CreatePost)
		posts.GET("/:id", postController.GetPostDetail)
		posts.PUT("/:id", postController.UpdatePost)
		posts.DELETE("/:id", postController.DeletePost)
		posts.POST("/:id/recover", postController.RecoverPost)
		posts.DELETE("/:id/purge", postController.PurgePost)
	}
}
