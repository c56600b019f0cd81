package models

import (
	"time"
)

// Post is a short user-authored article. WriterID is set once on creation and
// Views only ever grows.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	WriterID  uint      `json:"writer" gorm:"not null;index"`
	Writer    User      `json:"-" gorm:"foreignKey:WriterID;constraint:OnDelete:CASCADE"`
	Title     string    `json:"title" gorm:"not null;type:varchar(50)" validate:"required,max=50"`
	Content   string    `json:"content" gorm:"not null;type:text" validate:"required,max=400"`
	Views     uint      `json:"views" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
}
