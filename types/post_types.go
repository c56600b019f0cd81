package types

import (
	"strings"

	"github.com/postboard/api-go/services"
)

// ListPostsQuery is the query string of GET /api/posts.
type ListPostsQuery struct {
	OrderBy  string `form:"order_by,default=created_date"`
	Reverse  int    `form:"reverse,default=1"`
	Search   string `form:"search"`
	Tags     string `form:"tags"`
	PageSize int    `form:"page_size,default=10"`
	Page     int    `form:"page,default=1"`
}

// ToListQuery converts and validates the query. reverse must be 0 or 1.
func (q ListPostsQuery) ToListQuery() (services.ListQuery, error) {
	lq := services.ListQuery{
		OrderBy:    services.SortField(strings.TrimSpace(q.OrderBy)),
		Descending: q.Reverse == 1,
		Search:     strings.TrimSpace(q.Search),
		Tags:       services.SplitFilterTags(q.Tags),
		PageSize:   q.PageSize,
		Page:       q.Page,
	}

	err := lq.Validate()
	if q.Reverse != 0 && q.Reverse != 1 {
		verr, ok := err.(*services.ValidationError)
		if !ok {
			verr = &services.ValidationError{}
		}
		err = verr.Add("reverse", "must be 0 or 1")
	}
	if err != nil {
		return services.ListQuery{}, err
	}
	return lq, nil
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Tags    string `json:"tags"`
}

// UpdatePostRequest fields are optional; absent fields are not changed.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tags    *string `json:"tags"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	TokenType    string   `json:"token_type"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserInfo `json:"user"`
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
