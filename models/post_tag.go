package models

// PostTag links a post to a tag. Rows go away with either side.
type PostTag struct {
	ID     uint `gorm:"primaryKey;autoIncrement"`
	PostID uint `gorm:"not null;uniqueIndex:idx_post_tag"`
	TagID  uint `gorm:"not null;uniqueIndex:idx_post_tag;index"`

	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Tag  Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
