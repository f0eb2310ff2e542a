package es

import "time"

// NovelES 写入 ES 的小说文档
type NovelES struct {
	ID             uint64        `json:"id"`
	AuthorID       uint64        `json:"author_id"`
	AuthorNickname string        `json:"author_nickname"`
	Title          string        `json:"title"`
	Synopsis       string        `json:"synopsis"`
	Tags           []string      `json:"tags"`
	Status         int8          `json:"status"`
	WordCount      int           `json:"word_count"`
	ChaptersCount  int           `json:"chapters_count"`
	ViewsCount     int64         `json:"views_count"`
	RatingAvg      float64       `json:"rating_avg"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Sort           []interface{} `json:"-"`
}
