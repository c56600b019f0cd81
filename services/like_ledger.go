package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/postboard/api-go/logger"
	"github.com/postboard/api-go/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "post_like_toggles_total",
	Help: "Like toggles by outcome.",
}, []string{"outcome"})

// LikeCountCache holds derived like counts keyed by post id. Entries are
// dropped on every toggle, never adjusted in place. Invalidate also advances
// the post's generation, and Set only stores a count read under the current
// generation, so a count read before a toggle is never cached after it.
type LikeCountCache interface {
	Get(ctx context.Context, postID uint) (count int64, ok bool, err error)
	Generation(ctx context.Context, postID uint) (int64, error)
	Set(ctx context.Context, postID uint, generation, count int64) error
	Invalidate(ctx context.Context, postID uint) error
}

type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"likeCount"`
}

// LikeLedger records at most one like per (user, post).
type LikeLedger struct {
	DB    *gorm.DB
	Cache LikeCountCache // optional
}

func NewLikeLedger(db *gorm.DB, cache LikeCountCache) *LikeLedger {
	return &LikeLedger{DB: db, Cache: cache}
}

// Toggle likes the post if userID has not liked it yet, otherwise removes the
// like. The insert relies on the (user_id, post_id) unique index, so two
// concurrent toggles can never leave two rows behind.
func (l *LikeLedger) Toggle(ctx context.Context, userID, postID uint) (*LikeState, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	var state LikeState
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePostExists(tx, postID); err != nil {
			return err
		}

		like := models.Like{UserID: userID, PostID: postID}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).Create(&like)
		if result.Error != nil {
			return fmt.Errorf("insert like: %w", result.Error)
		}

		if result.RowsAffected == 1 {
			state.Liked = true
		} else {
			err := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
			if err != nil {
				return fmt.Errorf("delete like: %w", err)
			}
		}

		return tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&state.Count).Error
	})
	if err != nil {
		return nil, err
	}

	l.Invalidate(ctx, postID)

	outcome := "unliked"
	if state.Liked {
		outcome = "liked"
	}
	likeToggles.WithLabelValues(outcome).Inc()

	return &state, nil
}

// Count returns the number of likes on a post, served from the cache when one
// is configured.
func (l *LikeLedger) Count(ctx context.Context, postID uint) (int64, error) {
	cacheable := false
	var generation int64
	if l.Cache != nil {
		count, ok, err := l.Cache.Get(ctx, postID)
		if err != nil {
			logger.From(ctx).Warn("like count cache read failed", "post_id", postID, "error", err)
		} else if ok {
			return count, nil
		}

		// Read before the count so a toggle in between makes the Set a no-op.
		generation, err = l.Cache.Generation(ctx, postID)
		if err != nil {
			logger.From(ctx).Warn("like count generation read failed", "post_id", postID, "error", err)
		} else {
			cacheable = true
		}
	}

	db := l.DB.WithContext(ctx)
	if err := ensurePostExists(db, postID); err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count likes of post %d: %w", postID, err)
	}

	if cacheable {
		if err := l.Cache.Set(ctx, postID, generation, count); err != nil {
			logger.From(ctx).Warn("like count cache write failed", "post_id", postID, "error", err)
		}
	}
	return count, nil
}

// Invalidate drops the cached count for a post. Cache failures are logged only;
// the entry then lives until its TTL runs out.
func (l *LikeLedger) Invalidate(ctx context.Context, postID uint) {
	if l.Cache == nil {
		return
	}
	if err := l.Cache.Invalidate(ctx, postID); err != nil {
		logger.From(ctx).Warn("like count cache invalidation failed", "post_id", postID, "error", err)
	}
}

func ensurePostExists(db *gorm.DB, postID uint) error {
	var post models.Post
	err := db.Select("id").First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find post %d: %w", postID, err)
	}
	return nil
}
