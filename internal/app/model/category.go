package model

import (
	"time"
)

// Category 음식점 카테고리 모델
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`     // 카테고리 이름
	Description string    `gorm:"type:text" json:"description"`         // 설명
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
