package model

import (
	"time"
)

type Novel struct {
	ID            uint64    `gorm:"primaryKey"`
	AuthorID      uint64    `gorm:"not null;index:idx_author_id" json:"author_id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Synopsis      string    `gorm:"type:text" json:"synopsis"`
	CoverURL      string    `gorm:"type:varchar(255)" json:"cover_url"`
	Tags          string    `gorm:"type:varchar(255)" json:"tags"` // 逗号分隔
	Status        int8      `gorm:"not null;default:0" json:"status"` // 0:连载中, 1:已完结
	IsDeleted     bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	WordCount     int       `gorm:"not null;default:0" json:"word_count"`
	ChaptersCount int       `gorm:"not null;default:0" json:"chapters_count"`
	ViewsCount    int64     `gorm:"not null;default:0" json:"views_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	RatingsCount  int       `gorm:"not null;default:0" json:"ratings_count"`
	RatingSum     int64     `gorm:"not null;default:0" json:"rating_sum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联关系
	Author User `gorm:"foreignKey:AuthorID;references:ID"`
}

func (Novel) TableName() string {
	return "novels"
}
