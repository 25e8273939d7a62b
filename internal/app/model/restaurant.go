package model

import (
	"time"
)

// ResourceType 리뷰 대상 리소스 종류
type ResourceType string

const (
	ResourceRestaurant ResourceType = "restaurant" // 음식점
	ResourceDish       ResourceType = "dish"       // 메뉴(요리)
)

// Valid 지원하는 리소스 타입인지 확인
func (t ResourceType) Valid() bool {
	return t == ResourceRestaurant || t == ResourceDish
}

// Restaurant 음식점 모델
//
// RatingCount/RatingSum은 리뷰 생명주기 트랜잭션 안에서만 증감되는 집계 컬럼이고,
// RankingScore는 그 집계로부터 재계산되는 파생 값이다. 클라이언트가 직접 쓸 수 없다.
type Restaurant struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`              // 음식점 이름
	Description string    `gorm:"type:text" json:"description"`            // 소개
	Address     string    `gorm:"type:text" json:"address"`                // 위치
	ImageURL    string    `json:"image_url"`                               // 대표 이미지
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`      // 카테고리 ID (nullable)
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	ProposedBy uint `gorm:"not null;index" json:"proposed_by"`      // 제안한 사용자 ID
	Approved   bool `gorm:"default:false;index" json:"approved"`    // 관리자 승인 여부

	// 평점 집계 (리뷰 트랜잭션 전용)
	RatingCount  int     `gorm:"not null;default:0" json:"rating_count"`  // 살아있는 리뷰 수
	RatingSum    int     `gorm:"not null;default:0" json:"rating_sum"`    // 평점 합계
	RankingScore float64 `gorm:"not null;default:0" json:"ranking_score"` // 파생 랭킹 점수

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}
