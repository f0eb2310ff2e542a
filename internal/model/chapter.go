package model

import (
	"time"
)

// Chapter 章节元数据，正文存储在 MongoDB 的 chapter_contents 集合
type Chapter struct {
	ID          uint64     `gorm:"primaryKey"`
	NovelID     uint64     `gorm:"not null;index:idx_novel_seq,unique" json:"novel_id"`
	Seq         int        `gorm:"not null;index:idx_novel_seq,unique" json:"seq"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	WordCount   int        `gorm:"not null;default:0" json:"word_count"`
	IsDraft     bool       `gorm:"type:tinyint(1);not null;default:0" json:"is_draft"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}
