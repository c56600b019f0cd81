package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/postboard/api-go/models"
	"gorm.io/gorm"
)

// SortField is a column a listing can be ordered by.
type SortField string

const (
	SortByCreatedDate SortField = "created_date"
	SortByViews       SortField = "views"
	SortByLikes       SortField = "likes"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

const likeCountExpr = "(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)"

const tagNamesExpr = "ARRAY(SELECT '#' || tags.name FROM post_tags JOIN tags ON tags.id = post_tags.tag_id " +
	"WHERE post_tags.post_id = posts.id ORDER BY post_tags.id)"

var summaryColumns = []string{
	"posts.id",
	"posts.writer_id",
	"posts.title",
	tagNamesExpr + " AS tags",
	"posts.views",
	likeCountExpr + " AS likes",
	"posts.created_at",
	"posts.updated_at",
	"posts.is_active",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// SortPosts orders posts by field. Ties are broken by id in the same direction
// so that page boundaries are stable.
func SortPosts(field SortField, descending bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		dir := "ASC"
		if descending {
			dir = "DESC"
		}

		var column string
		switch field {
		case SortByViews:
			column = "posts.views"
		case SortByLikes:
			column = likeCountExpr
		default:
			column = "posts.created_at"
		}
		return db.Order(column + " " + dir).Order("posts.id " + dir)
	}
}

// SearchPosts keeps posts whose title or content contains term, ignoring case.
func SearchPosts(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := containsPattern(term)
		return db.Where("(posts.title ILIKE ? OR posts.content ILIKE ?)", pattern, pattern)
	}
}

// FilterByTags keeps posts linked to at least one tag whose name contains any
// of tags. An empty list filters nothing.
func FilterByTags(tags []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		var (
			conds []string
			args  []interface{}
		)
		for _, tag := range tags {
			tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
			if tag == "" {
				continue
			}
			conds = append(conds, "tags.name ILIKE ?")
			args = append(args, containsPattern(tag))
		}
		if len(conds) == 0 {
			return db
		}

		return db.Where(
			"EXISTS (SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id "+
				"WHERE post_tags.post_id = posts.id AND ("+strings.Join(conds, " OR ")+"))",
			args...,
		)
	}
}

// Paginate selects page (1-based) of pageSize rows. Pages whose offset would
// overflow int are pinned to the largest offset, which selects nothing.
func Paginate(pageSize, page int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(pageOffset(pageSize, page)).Limit(pageSize)
	}
}

func pageOffset(pageSize, page int) int {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// SplitFilterTags splits a comma-separated tag filter such as "sns,#like".
func SplitFilterTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

type ListQuery struct {
	OrderBy    SortField
	Descending bool
	Search     string
	Tags       []string
	PageSize   int
	Page       int
}

// NewListQuery returns the default listing: newest first, first page of ten.
func NewListQuery() ListQuery {
	return ListQuery{
		OrderBy:    SortByCreatedDate,
		Descending: true,
		PageSize:   DefaultPageSize,
		Page:       1,
	}
}

func (q ListQuery) Validate() error {
	verr := &ValidationError{}
	switch q.OrderBy {
	case SortByCreatedDate, SortByViews, SortByLikes:
	default:
		verr.Add("order_by", fmt.Sprintf("must be one of: %s, %s, %s", SortByCreatedDate, SortByViews, SortByLikes))
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		verr.Add("page_size", fmt.Sprintf("must be between 1 and %d", MaxPageSize))
	}
	if q.Page < 1 {
		verr.Add("page", "must be at least 1")
	}
	if verr.empty() {
		return nil
	}
	return verr
}

// PostSummary is a listing row. Content is never part of it.
type PostSummary struct {
	ID        uint           `json:"id"`
	WriterID  uint           `json:"writer"`
	Title     string         `json:"title"`
	Tags      pq.StringArray `json:"tags" gorm:"type:text[]"`
	Views     uint           `json:"views"`
	Likes     int64          `json:"likes"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	IsActive  bool           `json:"isActive"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

type PostPage struct {
	Posts      []PostSummary  `json:"posts"`
	Pagination PaginationMeta `json:"pagination"`
}

// Listing runs the post listing pipeline.
type Listing struct {
	DB *gorm.DB
}

func NewListing(db *gorm.DB) *Listing {
	return &Listing{DB: db}
}

// Query builds the listing statement: sort, search, tag filter, paginate.
// Inactive posts are included.
func (l *Listing) Query(ctx context.Context, q ListQuery) *gorm.DB {
	return l.DB.WithContext(ctx).
		Model(&models.Post{}).
		Select(summaryColumns).
		Scopes(
			SortPosts(q.OrderBy, q.Descending),
			SearchPosts(q.Search),
			FilterByTags(q.Tags),
			Paginate(q.PageSize, q.Page),
		)
}

func (l *Listing) List(ctx context.Context, q ListQuery) (*PostPage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var total int64
	err := l.DB.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(SearchPosts(q.Search), FilterByTags(q.Tags)).
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))

	summaries := make([]PostSummary, 0, q.PageSize)
	if q.Page <= totalPages {
		if err := l.Query(ctx, q).Find(&summaries).Error; err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
	}

	return &PostPage{
		Posts: summaries,
		Pagination: PaginationMeta{
			CurrentPage: q.Page,
			PageSize:    q.PageSize,
			TotalItems:  total,
			TotalPages:  totalPages,
		},
	}, nil
}
