package model

import (
	"time"
)

// Dish 메뉴(요리) 모델
// 음식점 내에서 이름이 유일해야 한다.
type Dish struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	RestaurantID uint       `gorm:"not null;index;uniqueIndex:idx_dishes_restaurant_name" json:"restaurant_id"` // 소속 음식점 ID
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	Name         string     `gorm:"not null;uniqueIndex:idx_dishes_restaurant_name" json:"name"` // 메뉴 이름
	Description  string     `gorm:"type:text" json:"description"`                                // 설명
	Price        float64    `gorm:"not null;default:0" json:"price"`                             // 가격
	ImageURL     string     `json:"image_url"`                                                   // 이미지
	CreatedBy    uint       `gorm:"not null;index" json:"created_by"`                            // 등록한 사용자 ID

	// 평점 집계 (리뷰 트랜잭션 전용)
	RatingCount int `gorm:"not null;default:0" json:"rating_count"` // 살아있는 리뷰 수
	RatingSum   int `gorm:"not null;default:0" json:"rating_sum"`   // 평점 합계

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Dish) TableName() string {
	return "dishes"
}
