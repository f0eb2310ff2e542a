package dto

import "time"

// CreateNovelDTO 创建小说
type CreateNovelDTO struct {
	Title    string   `json:"title" validate:"required,min=1,max=100"`
	Synopsis string   `json:"synopsis" validate:"max=2000"`
	Tags     []string `json:"tags" validate:"max=10"`
	CoverURL string   `json:"cover_url"`
}

// UpdateNovelDTO 更新小说信息
type UpdateNovelDTO struct {
	Title    *string  `json:"title" validate:"omitempty,min=1,max=100"`
	Synopsis *string  `json:"synopsis" validate:"omitempty,max=2000"`
	Tags     []string `json:"tags" validate:"omitempty,max=10"`
	CoverURL *string  `json:"cover_url"`
	Status   *int8    `json:"status" validate:"omitempty,min=0,max=1"`
}

// NovelDTO 小说
type NovelDTO struct {
	ID             uint64    `json:"id"`
	AuthorID       uint64    `json:"author_id"`
	AuthorNickname string    `json:"author_nickname"`
	Title          string    `json:"title"`
	Synopsis       string    `json:"synopsis"`
	CoverURL       string    `json:"cover_url"`
	Tags           []string  `json:"tags"`
	Status         int8      `json:"status"`
	WordCount      int       `json:"word_count"`
	ChaptersCount  int       `json:"chapters_count"`
	ViewsCount     int64     `json:"views_count"`
	CommentsCount  int       `json:"comments_count"`
	RatingAvg      float64   `json:"rating_avg"`
	RatingsCount   int       `json:"ratings_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SearchNovelDTO 搜索
type SearchNovelDTO struct {
	Keyword string `form:"keyword" json:"keyword" validate:"required,min=1,max=100"`
	Status  int8   `form:"status,default=-1" json:"status"`
	PageDTO
}
