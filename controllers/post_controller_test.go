package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/models"
	"github.com/postboard/api-go/services"
	"github.com/postboard/api-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) CreatePost(ctx context.Context, writerID uint, in services.CreatePostInput) (*services.PostDetail, error) {
	args := m.Called(ctx, writerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PostDetail), args.Error(1)
}

func (m *mockPostService) EditPost(ctx context.Context, writerID, postID uint, in services.EditPostInput) (*services.PostDetail, error) {
	args := m.Called(ctx, writerID, postID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PostDetail), args.Error(1)
}

func (m *mockPostService) SoftDeletePost(ctx context.Context, writerID, postID uint) error {
	return m.Called(ctx, writerID, postID).Error(0)
}

func (m *mockPostService) RecoverPost(ctx context.Context, writerID, postID uint) error {
	return m.Called(ctx, writerID, postID).Error(0)
}

func (m *mockPostService) HardDeletePost(ctx context.Context, writerID, postID uint) error {
	return m.Called(ctx, writerID, postID).Error(0)
}

func (m *mockPostService) GetPostDetail(ctx context.Context, viewerID, postID uint) (*services.PostDetail, error) {
	args := m.Called(ctx, viewerID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PostDetail), args.Error(1)
}

type mockLister struct {
	mock.Mock
}

func (m *mockLister) List(ctx context.Context, q services.ListQuery) (*services.PostPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PostPage), args.Error(1)
}

// newTestRouter wires pc behind a fake identity middleware: a non-zero userID
// is attached to every request.
func newTestRouter(pc *PostController, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			utils.SetUser(c, &utils.UserClaims{UserID: userID})
		}
		c.Next()
	})
	r.GET("/api/posts", pc.ListPosts)
	r.POST("/api/posts", pc.CreatePost)
	r.GET("/api/posts/:id", pc.GetPostDetail)
	r.PUT("/api/posts/:id", pc.UpdatePost)
	r.DELETE("/api/posts/:id", pc.DeletePost)
	r.POST("/api/posts/:id/recover", pc.RecoverPost)
	r.DELETE("/api/posts/:id/purge", pc.PurgePost)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListPosts_Defaults(t *testing.T) {
	lister := new(mockLister)
	pc := NewPostController(new(mockPostService), lister)

	lister.On("List", mock.Anything, services.ListQuery{
		OrderBy:    services.SortByCreatedDate,
		Descending: true,
		PageSize:   10,
		Page:       1,
	}).Return(&services.PostPage{
		Posts:      []services.PostSummary{{ID: 1, Title: "hello", Tags: []string{"#go"}}},
		Pagination: services.PaginationMeta{CurrentPage: 1, PageSize: 10, TotalItems: 1, TotalPages: 1},
	}, nil)

	w := serve(newTestRouter(pc, 0), http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success    bool                    `json:"success"`
		Data       []services.PostSummary  `json:"data"`
		Pagination services.PaginationMeta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "hello", body.Data[0].Title)
	assert.NotContains(t, w.Body.String(), "content")
	assert.Equal(t, int64(1), body.Pagination.TotalItems)
	lister.AssertExpectations(t)
}

func TestListPosts_QueryParameters(t *testing.T) {
	lister := new(mockLister)
	pc := NewPostController(new(mockPostService), lister)

	lister.On("List", mock.Anything, services.ListQuery{
		OrderBy:    services.SortByLikes,
		Descending: false,
		Search:     "gin",
		Tags:       []string{"sns", "like"},
		PageSize:   5,
		Page:       2,
	}).Return(&services.PostPage{Posts: []services.PostSummary{}}, nil)

	w := serve(newTestRouter(pc, 0), http.MethodGet,
		"/api/posts?order_by=likes&reverse=0&search=gin&tags=sns,%23like&page_size=5&page=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	lister.AssertExpectations(t)
}

func TestListPosts_InvalidQuery(t *testing.T) {
	pc := NewPostController(new(mockPostService), new(mockLister))
	r := newTestRouter(pc, 0)

	for _, target := range []string{
		"/api/posts?order_by=title",
		"/api/posts?reverse=2",
		"/api/posts?page=0",
		"/api/posts?page_size=1000",
		"/api/posts?page=abc",
	} {
		w := serve(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestCreatePost(t *testing.T) {
	svc := new(mockPostService)
	pc := NewPostController(svc, new(mockLister))

	svc.On("CreatePost", mock.Anything, uint(7), services.CreatePostInput{
		Title: "title", Content: "body", Tags: "#sns,#like",
	}).Return(&services.PostDetail{
		Post: models.Post{ID: 1, WriterID: 7, Title: "title", Content: "body", IsActive: true},
		Tags: []string{"#sns", "#like"},
	}, nil)

	w := serve(newTestRouter(pc, 7), http.MethodPost, "/api/posts",
		`{"title":"title","content":"body","tags":"#sns,#like"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"tags":["#sns","#like"]`)
	svc.AssertExpectations(t)
}

func TestCreatePost_Anonymous(t *testing.T) {
	pc := NewPostController(new(mockPostService), new(mockLister))

	w := serve(newTestRouter(pc, 0), http.MethodPost, "/api/posts", `{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePost_ValidationError(t *testing.T) {
	svc := new(mockPostService)
	pc := NewPostController(svc, new(mockLister))

	svc.On("CreatePost", mock.Anything, uint(7), mock.Anything).
		Return(nil, services.NewValidationError("title", "must be at most 50 characters"))

	w := serve(newTestRouter(pc, 7), http.MethodPost, "/api/posts", `{"title":"t","content":"c"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"must be at most 50 characters"}, body.Fields["title"])
}

func TestCreatePost_MissingFields(t *testing.T) {
	pc := NewPostController(new(mockPostService), new(mockLister))

	w := serve(newTestRouter(pc, 7), http.MethodPost, "/api/posts", `{"content":"c"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPostDetail(t *testing.T) {
	svc := new(mockPostService)
	pc := NewPostController(svc, new(mockLister))

	svc.On("GetPostDetail", mock.Anything, uint(3), uint(12)).Return(&services.PostDetail{
		Post:  models.Post{ID: 12, Title: "t", Content: "full body", Views: 4},
		Likes: 2,
	}, nil)

	w := serve(newTestRouter(pc, 3), http.MethodGet, "/api/posts/12", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"full body"`)
	assert.Contains(t, w.Body.String(), `"likes":2`)
}

func TestGetPostDetail_Errors(t *testing.T) {
	svc := new(mockPostService)
	pc := NewPostController(svc, new(mockLister))
	r := newTestRouter(pc, 3)

	svc.On("GetPostDetail", mock.Anything, uint(3), uint(99)).Return(nil, services.ErrNotFound)
	svc.On("GetPostDetail", mock.Anything, uint(3), uint(500)).Return(nil, errors.New("connection reset"))

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/posts/99", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/posts/abc", "").Code)

	w := serve(r, http.MethodGet, "/api/posts/500", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestUpdatePost_Partial(t *testing.T) {
	svc := new(mockPostService)
	pc := NewPostController(svc, new(mockLister))

	svc.On("EditPost", mock.Anything, uint(7), uint(1), mock.MatchedBy(func(in services.EditPostInput) bool {
		return in.Title != nil && *in.Title == "new" && in.Content == nil && in.Tags == nil
	})).Return(&services.PostDetail{Post: models.Post{ID: 1, Title: "new"}}, nil)

	w := serve(newTestRouter(pc, 7), http.MethodPut, "/api/posts/1", `{"title":"new"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdatePost_NotOwner(t *testing.T) {
	svc := new(mockPostService)
	pc := NewPostController(svc, new(mockLister))

	svc.On("EditPost", mock.Anything, uint(8), uint(1), mock.Anything).Return(nil, services.ErrNotFound)

	w := serve(newTestRouter(pc, 8), http.MethodPut, "/api/posts/1", `{"title":"new"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecoverPurge(t *testing.T) {
	svc := new(mockPostService)
	pc := NewPostController(svc, new(mockLister))
	r := newTestRouter(pc, 7)

	svc.On("SoftDeletePost", mock.Anything, uint(7), uint(1)).Return(nil)
	svc.On("RecoverPost", mock.Anything, uint(7), uint(1)).Return(nil)
	svc.On("HardDeletePost", mock.Anything, uint(7), uint(1)).Return(nil)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodDelete, "/api/posts/1", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/posts/1/recover", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/api/posts/1/purge", "").Code)
	svc.AssertExpectations(t)
}

func TestDeletePost_Anonymous(t *testing.T) {
	svc := new(mockPostService)
	pc := NewPostController(svc, new(mockLister))

	svc.On("SoftDeletePost", mock.Anything, uint(0), uint(1)).Return(services.ErrUnauthenticated)

	w := serve(newTestRouter(pc, 0), http.MethodDelete, "/api/posts/1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
