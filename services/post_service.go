package services

import (
	"context"

	"github.com/postboard/api-go/events"
	"github.com/postboard/api-go/logger"
	"github.com/postboard/api-go/models"
	"gorm.io/gorm"
)

type CreatePostInput struct {
	Title   string
	Content string
	Tags    string
}

// EditPostInput is a partial edit; nil fields are not changed.
type EditPostInput struct {
	Title   *string
	Content *string
	Tags    *string
}

// PostDetail is the full view of one post.
type PostDetail struct {
	models.Post
	Tags  []string `json:"tags"`
	Likes int64    `json:"likes"`
}

// PostService ties posts, tags and likes together. Every mutation names the
// acting user explicitly; 0 means anonymous.
type PostService struct {
	DB     *gorm.DB
	Posts  *PostStore
	Tags   *TagRegistry
	Likes  *LikeLedger
	Events events.Publisher
}

func NewPostService(db *gorm.DB, likes *LikeLedger, publisher events.Publisher) *PostService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PostService{
		DB:     db,
		Posts:  NewPostStore(db),
		Tags:   NewTagRegistry(db),
		Likes:  likes,
		Events: publisher,
	}
}

// CreatePost stores the post and links its tags in one transaction. If any
// tag fails, the post is not created either.
func (s *PostService) CreatePost(ctx context.Context, writerID uint, in CreatePostInput) (*PostDetail, error) {
	if writerID == 0 {
		return nil, ErrUnauthenticated
	}
	if err := ValidateTagString(in.Tags); err != nil {
		return nil, err
	}

	var detail *PostDetail
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.Posts.WithTx(tx).Create(ctx, writerID, in.Title, in.Content)
		if err != nil {
			return err
		}

		tags := s.Tags.WithTx(tx)
		if err := tags.ResolveAndLink(ctx, post.ID, in.Tags); err != nil {
			return err
		}
		names, err := tags.HashtagsForPost(ctx, post.ID)
		if err != nil {
			return err
		}

		detail = &PostDetail{Post: *post, Tags: names}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.PostCreated, detail.ID, writerID)
	return detail, nil
}

// EditPost updates the provided fields of a post owned by writerID. Tags in
// in.Tags are added to the post; tags already linked are kept.
func (s *PostService) EditPost(ctx context.Context, writerID, postID uint, in EditPostInput) (*PostDetail, error) {
	if writerID == 0 {
		return nil, ErrUnauthenticated
	}
	if in.Tags != nil {
		if err := ValidateTagString(*in.Tags); err != nil {
			return nil, err
		}
	}

	var detail *PostDetail
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.Posts.WithTx(tx).Update(ctx, postID, writerID, PostFields{
			Title:   in.Title,
			Content: in.Content,
		})
		if err != nil {
			return err
		}

		tags := s.Tags.WithTx(tx)
		if in.Tags != nil {
			if err := tags.ResolveAndLink(ctx, post.ID, *in.Tags); err != nil {
				return err
			}
		}
		names, err := tags.HashtagsForPost(ctx, post.ID)
		if err != nil {
			return err
		}

		detail = &PostDetail{Post: *post, Tags: names}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.PostUpdated, postID, writerID)
	return detail, nil
}

func (s *PostService) SoftDeletePost(ctx context.Context, writerID, postID uint) error {
	changed, err := s.Posts.SetActive(ctx, postID, writerID, false)
	if err != nil {
		return err
	}
	if changed {
		s.publish(ctx, events.PostDeactivated, postID, writerID)
	}
	return nil
}

func (s *PostService) RecoverPost(ctx context.Context, writerID, postID uint) error {
	changed, err := s.Posts.SetActive(ctx, postID, writerID, true)
	if err != nil {
		return err
	}
	if changed {
		s.publish(ctx, events.PostRecovered, postID, writerID)
	}
	return nil
}

// HardDeletePost removes the post with its tag links and likes. Tags stay.
func (s *PostService) HardDeletePost(ctx context.Context, writerID, postID uint) error {
	if err := s.Posts.Delete(ctx, postID, writerID); err != nil {
		return err
	}
	s.Likes.Invalidate(ctx, postID)
	s.publish(ctx, events.PostDeleted, postID, writerID)
	return nil
}

// GetPostDetail counts one view and returns the post with content, tags and
// like count.
func (s *PostService) GetPostDetail(ctx context.Context, viewerID, postID uint) (*PostDetail, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}

	post, err := s.Posts.IncrementView(ctx, postID)
	if err != nil {
		return nil, err
	}
	names, err := s.Tags.HashtagsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	likes, err := s.Likes.Count(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: *post, Tags: names, Likes: likes}, nil
}

// ToggleLike flips userID's like on a post.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*LikeState, error) {
	state, err := s.Likes.Toggle(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	eventType := events.PostUnliked
	if state.Liked {
		eventType = events.PostLiked
	}
	s.publish(ctx, eventType, postID, userID)
	return state, nil
}

func (s *PostService) publish(ctx context.Context, eventType string, postID, userID uint) {
	if err := s.Events.Publish(ctx, events.New(eventType, postID, userID)); err != nil {
		logger.From(ctx).Warn("event publish failed", "type", eventType, "post_id", postID, "error", err)
	}
}
