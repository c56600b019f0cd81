package models

// Tag names are unique; the unique index is what makes get-or-create atomic.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;type:varchar(20);uniqueIndex" validate:"required,max=20"`
}
