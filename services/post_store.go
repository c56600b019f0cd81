package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/postboard/api-go/models"
	"gorm.io/gorm"
)

// PostStore owns Post rows: creation, ownership-checked changes, views.
type PostStore struct {
	DB *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{DB: db}
}

// WithTx returns a store whose statements run inside tx.
func (s *PostStore) WithTx(tx *gorm.DB) *PostStore {
	return &PostStore{DB: tx}
}

// PostFields is a partial update; nil fields are left alone.
type PostFields struct {
	Title   *string
	Content *string
}

func (s *PostStore) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.DB.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &post, nil
}

// IncrementView bumps the view counter in a single UPDATE and returns the
// refreshed post. updated_at is not touched: a read is not an edit.
func (s *PostStore) IncrementView(ctx context.Context, id uint) (*models.Post, error) {
	result := s.DB.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return nil, fmt.Errorf("increment views of post %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Create inserts an active post with zero views.
func (s *PostStore) Create(ctx context.Context, writerID uint, title, content string) (*models.Post, error) {
	if writerID == 0 {
		return nil, ErrUnauthenticated
	}

	post := models.Post{
		WriterID: writerID,
		Title:    strings.TrimSpace(title),
		Content:  strings.TrimSpace(content),
		IsActive: true,
	}
	if err := validateStruct(&post); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// Update applies fields to a post owned by writerID.
func (s *PostStore) Update(ctx context.Context, id, writerID uint, fields PostFields) (*models.Post, error) {
	post, err := s.findOwned(ctx, id, writerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Title != nil {
		post.Title = strings.TrimSpace(*fields.Title)
		updates["title"] = post.Title
	}
	if fields.Content != nil {
		post.Content = strings.TrimSpace(*fields.Content)
		updates["content"] = post.Content
	}
	if len(updates) == 0 {
		return post, nil
	}
	if err := validateStruct(post); err != nil {
		return nil, err
	}

	updates["updated_at"] = time.Now()
	if err := s.DB.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return post, nil
}

// SetActive flips the active flag. It reports whether anything changed;
// setting a post to the state it is already in is a no-op.
func (s *PostStore) SetActive(ctx context.Context, id, writerID uint, active bool) (bool, error) {
	post, err := s.findOwned(ctx, id, writerID)
	if err != nil {
		return false, err
	}
	if post.IsActive == active {
		return false, nil
	}

	err = s.DB.WithContext(ctx).Model(post).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return false, fmt.Errorf("set post %d active=%t: %w", id, active, err)
	}
	return true, nil
}

// Delete removes a post owned by writerID together with its tag links and likes.
func (s *PostStore) Delete(ctx context.Context, id, writerID uint) error {
	post, err := s.findOwned(ctx, id, writerID)
	if err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
			return fmt.Errorf("delete tag links of post %d: %w", post.ID, err)
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete likes of post %d: %w", post.ID, err)
		}
		if err := tx.Delete(post).Error; err != nil {
			return fmt.Errorf("delete post %d: %w", post.ID, err)
		}
		return nil
	})
}

// findOwned loads a post only if writerID wrote it. A post owned by someone
// else is reported exactly like a missing one.
func (s *PostStore) findOwned(ctx context.Context, id, writerID uint) (*models.Post, error) {
	if writerID == 0 {
		return nil, ErrUnauthenticated
	}

	var post models.Post
	err := s.DB.WithContext(ctx).
		Where("id = ? AND writer_id = ?", id, writerID).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &post, nil
}
