package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChapterContentRepo interface {
	SaveContent(ctx context.Context, content *ChapterContent) error
	GetContent(ctx context.Context, chapterID uint64) (*ChapterContent, error)
	DeleteContent(ctx context.Context, chapterID uint64) error
	DeleteByNovel(ctx context.Context, novelID uint64) error
}

type chapterContentRepoImpl struct {
	col *mongo.Collection
}

func NewChapterContentRepo(db *mongo.Database) ChapterContentRepo {
	return &chapterContentRepoImpl{
		col: db.Collection("chapter_content"),
	}
}

// SaveContent 按 chapter_id 覆盖写入，保存草稿和修订共用
func (s *chapterContentRepoImpl) SaveContent(ctx context.Context, content *ChapterContent) error {
	filter := bson.M{"chapter_id": content.ChapterID}
	update := bson.M{"$set": bson.M{
		"novel_id":   content.NovelID,
		"body":       content.Body,
		"word_count": content.WordCount,
		"updated_at": content.UpdatedAt,
	}}
	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *chapterContentRepoImpl) GetContent(ctx context.Context, chapterID uint64) (*ChapterContent, error) {
	var content ChapterContent
	err := s.col.FindOne(ctx, bson.M{"chapter_id": chapterID}).Decode(&content)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *chapterContentRepoImpl) DeleteContent(ctx context.Context, chapterID uint64) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"chapter_id": chapterID})
	return err
}

// DeleteByNovel 下架小说时批量清理正文
func (s *chapterContentRepoImpl) DeleteByNovel(ctx context.Context, novelID uint64) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"novel_id": novelID})
	return err
}
