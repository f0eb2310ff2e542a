package mongo

import (
	"time"
)

// ChapterContent 章节正文，元数据行在 MySQL 的 chapters 表
type ChapterContent struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ChapterID uint64    `bson:"chapter_id" json:"chapterId"` // 关联 MySQL 的章节 ID
	NovelID   uint64    `bson:"novel_id" json:"novelId"`
	Body      string    `bson:"body" json:"body"`
	WordCount int       `bson:"word_count" json:"wordCount"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
