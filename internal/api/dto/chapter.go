package dto

import "time"

// CreateChapterDTO 创建章节，正文随元数据一并提交
type CreateChapterDTO struct {
	Seq     int    `json:"seq" validate:"required,min=1"`
	Title   string `json:"title" validate:"required,min=1,max=100"`
	Body    string `json:"body" validate:"required,min=1"`
	IsDraft bool   `json:"is_draft"`
}

// UpdateChapterDTO 更新章节
type UpdateChapterDTO struct {
	Title *string `json:"title" validate:"omitempty,min=1,max=100"`
	Body  *string `json:"body" validate:"omitempty,min=1"`
}

// ChapterDTO 章节元数据
type ChapterDTO struct {
	ID          uint64     `json:"id"`
	NovelID     uint64     `json:"novel_id"`
	Seq         int        `json:"seq"`
	Title       string     `json:"title"`
	WordCount   int        `json:"word_count"`
	IsDraft     bool       `json:"is_draft"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ChapterContentDTO 章节阅读内容
type ChapterContentDTO struct {
	ChapterDTO
	Body string `json:"body"`
}
