package model

import (
	"time"
)

// Review 리뷰 모델
//
// (author, resourceType, resourceId) 조합당 하나만 존재한다.
// Likes/Dislikes는 reactions 테이블에서 비정규화된 카운터로,
// 리액션 트랜잭션 안에서만 증감된다. 삭제는 하드 삭제이며
// 리뷰가 지워질 때 리액션도 같은 트랜잭션에서 함께 지워진다.
type Review struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	ResourceType ResourceType `gorm:"type:varchar(20);not null;uniqueIndex:idx_reviews_author_resource;index:idx_reviews_resource" json:"resource_type"` // 대상 종류
	ResourceID   uint         `gorm:"not null;uniqueIndex:idx_reviews_author_resource;index:idx_reviews_resource" json:"resource_id"`                    // 대상 ID
	AuthorID     uint         `gorm:"not null;uniqueIndex:idx_reviews_author_resource;index" json:"author_id"`                                           // 작성자 ID
	Author       User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Rating       int          `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"` // 평점 (1-5)
	Comment      string       `gorm:"type:text" json:"comment"`                                 // 리뷰 내용 (선택)

	// 비정규화 리액션 카운터
	Likes    int `gorm:"not null;default:0" json:"likes"`    // 좋아요 수
	Dislikes int `gorm:"not null;default:0" json:"dislikes"` // 싫어요 수

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Reactions []Reaction `gorm:"foreignKey:ReviewID" json:"-"` // 리액션 목록
}

func (Review) TableName() string {
	return "reviews"
}

// ReactionType 리액션 종류
type ReactionType string

const (
	ReactionLike    ReactionType = "like"    // 좋아요
	ReactionDislike ReactionType = "dislike" // 싫어요
	ReactionRemove  ReactionType = "remove"  // 리액션 철회 요청 (저장되지 않음)
)

// Reaction 리뷰 리액션 모델
// (reviewId, userId) 조합당 하나만 존재한다.
type Reaction struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	ReviewID  uint         `gorm:"not null;uniqueIndex:idx_reactions_review_user" json:"review_id"` // 리뷰 ID
	UserID    uint         `gorm:"not null;uniqueIndex:idx_reactions_review_user" json:"user_id"`   // 사용자 ID
	Type      ReactionType `gorm:"type:varchar(10);not null" json:"type"`                           // like | dislike
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Review Review `gorm:"foreignKey:ReviewID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

func (Reaction) TableName() string {
	return "reactions"
}
