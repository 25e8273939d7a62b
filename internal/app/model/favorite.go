package model

import (
	"time"
)

// Favorite 즐겨찾기 모델
// 사용자당 같은 리소스를 한 번만 즐겨찾기할 수 있다.
type Favorite struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_favorites_user_resource" json:"user_id"`                                        // 사용자 ID
	ResourceType ResourceType `gorm:"type:varchar(20);not null;uniqueIndex:idx_favorites_user_resource" json:"resource_type"`                 // 대상 종류
	ResourceID   uint         `gorm:"not null;uniqueIndex:idx_favorites_user_resource" json:"resource_id"`                                    // 대상 ID
	CreatedAt    time.Time    `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}
