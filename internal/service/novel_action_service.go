package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// 通知摘要里保留的正文长度
const excerptLimit = 50

type NovelActionService interface {
	CreateComment(ctx context.Context, userID uint64, novelID uint64, createDTO *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	GetComments(ctx context.Context, novelID uint64, rootID uint64, limit, offset int) ([]*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID uint64, commentID uint64) error
	LikeComment(ctx context.Context, userID uint64, commentID uint64) error
	UnlikeComment(ctx context.Context, userID uint64, commentID uint64) error
	RateNovel(ctx context.Context, userID uint64, novelID uint64, rateDTO *dto.RateNovelDTO) error
	GetRatings(ctx context.Context, novelID uint64, limit, offset int) ([]*dto.RatingDTO, error)
}

type NovelActionServiceImpl struct {
	actionRepo      repository.NovelActionRepo
	novelRepo       repository.NovelRepo
	userSvc         UserService
	notificationSvc NotificationService
}

func NewNovelActionService(
	actionRepo repository.NovelActionRepo,
	novelRepo repository.NovelRepo,
	userSvc UserService,
	notificationSvc NotificationService,
) NovelActionService {
	return &NovelActionServiceImpl{
		actionRepo:      actionRepo,
		novelRepo:       novelRepo,
		userSvc:         userSvc,
		notificationSvc: notificationSvc,
	}
}

// CreateComment 发表评论。一级评论通知作者，回复通知被回复人。
func (s *NovelActionServiceImpl) CreateComment(ctx context.Context, userID uint64, novelID uint64, createDTO *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	novel, err := s.novelRepo.GetNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}
	if novel == nil {
		return nil, ErrNovelNotFound
	}

	if createDTO.RootID != 0 {
		root, err := s.actionRepo.GetComment(ctx, createDTO.RootID)
		if err != nil {
			return nil, err
		}
		if root == nil {
			return nil, ErrCommentNotFound
		}
	}

	comment := &model.NovelComment{
		NovelID:    novelID,
		UserID:     userID,
		RootID:     createDTO.RootID,
		ReplyToUID: createDTO.ReplyToUID,
		Content:    createDTO.Content,
		CreatedAt:  time.Now(),
	}
	if err = s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	data := model.NotificationData{
		NovelID:    novelID,
		NovelTitle: novel.Title,
		CommentID:  comment.ID,
		Excerpt:    excerpt(createDTO.Content),
	}
	if createDTO.RootID == 0 {
		s.deliver(ctx, novel.AuthorID, userID, model.NotifyNewComment, data)
	} else if createDTO.ReplyToUID != 0 {
		s.deliver(ctx, createDTO.ReplyToUID, userID, model.NotifyCommentReply, data)
	}

	return s.toCommentDTO(ctx, comment), nil
}

func (s *NovelActionServiceImpl) GetComments(ctx context.Context, novelID uint64, rootID uint64, limit, offset int) ([]*dto.CommentDTO, error) {
	comments, err := s.actionRepo.GetComments(ctx, novelID, rootID, limit, offset)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(comments))
	for _, comment := range comments {
		userIDs = append(userIDs, comment.UserID)
	}
	users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userMap := make(map[uint64]*dto.UserDTO, len(users))
	for _, user := range users {
		if user.UserID != nil {
			userMap[*user.UserID] = user
		}
	}

	result := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		item := &dto.CommentDTO{
			ID:         comment.ID,
			NovelID:    comment.NovelID,
			UserID:     comment.UserID,
			RootID:     comment.RootID,
			ReplyToUID: comment.ReplyToUID,
			Content:    comment.Content,
			LikesCount: comment.LikesCount,
			CreatedAt:  comment.CreatedAt,
		}
		if user, ok := userMap[comment.UserID]; ok {
			if user.Nickname != nil {
				item.Nickname = *user.Nickname
			}
			if user.AvatarURL != nil {
				item.AvatarURL = *user.AvatarURL
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *NovelActionServiceImpl) DeleteComment(ctx context.Context, userID uint64, commentID uint64) error {
	comment, err := s.actionRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return UnauthorizedError
	}
	return s.actionRepo.DeleteComment(ctx, commentID)
}

// LikeComment 点赞并通知评论作者，重复点赞幂等
func (s *NovelActionServiceImpl) LikeComment(ctx context.Context, userID uint64, commentID uint64) error {
	comment, err := s.actionRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	inserted, err := s.actionRepo.CreateCommentLike(ctx, &model.CommentLike{
		UserID:    userID,
		CommentID: commentID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	s.deliver(ctx, comment.UserID, userID, model.NotifyCommentLike, model.NotificationData{
		NovelID:   comment.NovelID,
		CommentID: commentID,
		Excerpt:   excerpt(comment.Content),
	})
	return nil
}

func (s *NovelActionServiceImpl) UnlikeComment(ctx context.Context, userID uint64, commentID uint64) error {
	return s.actionRepo.DeleteCommentLike(ctx, &model.CommentLike{
		UserID:    userID,
		CommentID: commentID,
	})
}

// RateNovel 打分，重复打分覆盖旧分。首次评分通知作者。
func (s *NovelActionServiceImpl) RateNovel(ctx context.Context, userID uint64, novelID uint64, rateDTO *dto.RateNovelDTO) error {
	if rateDTO.Score < 1 || rateDTO.Score > 5 {
		return ErrRatingInvalid
	}

	novel, err := s.novelRepo.GetNovel(ctx, novelID)
	if err != nil {
		return err
	}
	if novel == nil {
		return ErrNovelNotFound
	}

	existing, err := s.actionRepo.GetRating(ctx, novelID, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	rating := &model.NovelRating{
		NovelID:   novelID,
		UserID:    userID,
		Score:     rateDTO.Score,
		Review:    rateDTO.Review,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.actionRepo.UpsertRating(ctx, rating); err != nil {
		return err
	}

	if existing == nil {
		s.deliver(ctx, novel.AuthorID, userID, model.NotifyNewRating, model.NotificationData{
			NovelID:    novelID,
			NovelTitle: novel.Title,
			Score:      rateDTO.Score,
			Excerpt:    excerpt(rateDTO.Review),
		})
	}
	return nil
}

func (s *NovelActionServiceImpl) GetRatings(ctx context.Context, novelID uint64, limit, offset int) ([]*dto.RatingDTO, error) {
	ratings, err := s.actionRepo.GetRatings(ctx, novelID, limit, offset)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(ratings))
	for _, rating := range ratings {
		userIDs = append(userIDs, rating.UserID)
	}
	users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	nicknames := make(map[uint64]string, len(users))
	for _, user := range users {
		if user.UserID != nil && user.Nickname != nil {
			nicknames[*user.UserID] = *user.Nickname
		}
	}

	result := make([]*dto.RatingDTO, 0, len(ratings))
	for _, rating := range ratings {
		result = append(result, &dto.RatingDTO{
			ID:        rating.ID,
			NovelID:   rating.NovelID,
			UserID:    rating.UserID,
			Nickname:  nicknames[rating.UserID],
			Score:     rating.Score,
			Review:    rating.Review,
			CreatedAt: rating.CreatedAt,
			UpdatedAt: rating.UpdatedAt,
		})
	}
	return result, nil
}

// deliver 通知投递失败不影响主操作
func (s *NovelActionServiceImpl) deliver(ctx context.Context, recipientID, actorID uint64, t model.NotificationType, data model.NotificationData) {
	err := s.notificationSvc.CreateNotification(ctx, &NotificationInput{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        t,
		Data:        data,
	})
	if err != nil {
		log.WarnContext(ctx, "deliver notification failed", "recipientID", recipientID, "type", t, "err", err)
	}
}

func (s *NovelActionServiceImpl) toCommentDTO(ctx context.Context, comment *model.NovelComment) *dto.CommentDTO {
	item := &dto.CommentDTO{
		ID:         comment.ID,
		NovelID:    comment.NovelID,
		UserID:     comment.UserID,
		RootID:     comment.RootID,
		ReplyToUID: comment.ReplyToUID,
		Content:    comment.Content,
		LikesCount: comment.LikesCount,
		CreatedAt:  comment.CreatedAt,
	}
	users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, []uint64{comment.UserID})
	if err == nil && len(users) > 0 {
		if users[0].Nickname != nil {
			item.Nickname = *users[0].Nickname
		}
		if users[0].AvatarURL != nil {
			item.AvatarURL = *users[0].AvatarURL
		}
	}
	return item
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit]) + "..."
}
