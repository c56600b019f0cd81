package models

import (
	"time"
)

// Like is one user's endorsement of one post. The (user_id, post_id) unique
// index backs the toggle.
type Like struct {
	LikeID    uint      `gorm:"column:like_id;primaryKey;autoIncrement"`
	PostID    uint      `gorm:"column:post_id;not null;uniqueIndex:idx_like_user_post,priority:2;index"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_like_user_post,priority:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}
