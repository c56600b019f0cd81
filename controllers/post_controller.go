package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/services"
	"github.com/postboard/api-go/types"
	"github.com/postboard/api-go/utils"
)

// PostService is the part of services.PostService the handlers use.
type PostService interface {
	CreatePost(ctx context.Context, writerID uint, in services.CreatePostInput) (*services.PostDetail, error)
	EditPost(ctx context.Context, writerID, postID uint, in services.EditPostInput) (*services.PostDetail, error)
	SoftDeletePost(ctx context.Context, writerID, postID uint) error
	RecoverPost(ctx context.Context, writerID, postID uint) error
	HardDeletePost(ctx context.Context, writerID, postID uint) error
	GetPostDetail(ctx context.Context, viewerID, postID uint) (*services.PostDetail, error)
}

type PostLister interface {
	List(ctx context.Context, q services.ListQuery) (*services.PostPage, error)
}

type PostController struct {
	Posts   PostService
	Listing PostLister
}

func NewPostController(posts PostService, listing PostLister) *PostController {
	return &PostController{Posts: posts, Listing: listing}
}

// ListPosts godoc
// @Summary List posts
// @Description Sorted, searchable, tag-filtered and paginated post summaries
// @Tags posts
// @Produce json
// @Param order_by query string false "created_date, views or likes"
// @Param reverse query int false "1 for descending (default), 0 for ascending"
// @Param search query string false "Substring of title or content"
// @Param tags query string false "Comma separated tag names"
// @Param page_size query int false "Page size"
// @Param page query int false "Page number"
// @Success 200 {object} StandardResponse
// @Router /posts [get]
func (pc *PostController) ListPosts(c *gin.Context) {
	var query types.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	listQuery, err := query.ToListQuery()
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := pc.Listing.List(c.Request.Context(), listQuery)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       page.Posts,
		Pagination: &page.Pagination,
	})
}

// CreatePost godoc
// @Summary Create a new post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body types.CreatePostRequest true "Post creation request"
// @Success 201 {object} StandardResponse
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	userID := utils.UserID(c)
	if userID == 0 {
		respondError(c, services.ErrUnauthenticated)
		return
	}

	var req types.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := pc.Posts.CreatePost(c.Request.Context(), userID, services.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: post})
}

// GetPostDetail counts a view and returns the whole post.
func (pc *PostController) GetPostDetail(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := pc.Posts.GetPostDetail(c.Request.Context(), utils.UserID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: post})
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID := utils.UserID(c)
	if userID == 0 {
		respondError(c, services.ErrUnauthenticated)
		return
	}

	var req types.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := pc.Posts.EditPost(c.Request.Context(), userID, postID, services.EditPostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: post})
}

// DeletePost deactivates a post. It can be brought back with RecoverPost.
func (pc *PostController) DeletePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := pc.Posts.SoftDeletePost(c.Request.Context(), utils.UserID(c), postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Post deactivated"})
}

func (pc *PostController) RecoverPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := pc.Posts.RecoverPost(c.Request.Context(), utils.UserID(c), postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Post recovered"})
}

// PurgePost removes a post for good, with its tag links and likes.
func (pc *PostController) PurgePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := pc.Posts.HardDeletePost(c.Request.Context(), utils.UserID(c), postID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
