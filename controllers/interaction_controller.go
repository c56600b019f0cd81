package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/services"
	"github.com/postboard/api-go/utils"
)

type LikeToggler interface {
	ToggleLike(ctx context.Context, userID, postID uint) (*services.LikeState, error)
}

type InteractionController struct {
	Likes LikeToggler
}

func NewInteractionController(likes LikeToggler) *InteractionController {
	return &InteractionController{Likes: likes}
}

// LikePost godoc
// @Summary Like or unlike a post
// @Description Toggles like status for a post
// @Tags interactions
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} services.LikeState
// @Router /posts/{id}/like [post]
func (ic *InteractionController) LikePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	state, err := ic.Likes.ToggleLike(c.Request.Context(), utils.UserID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
