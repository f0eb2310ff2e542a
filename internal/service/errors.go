package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrUserEmailExist          = errors.New("邮箱已注册")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrUserFollowExist         = errors.New("用户已关注")
	ErrUserFollowSelf          = errors.New("用户不能关注自己")
	ErrNovelNotFound           = errors.New("小说不存在")
	ErrNovelNotOwned           = errors.New("无权操作此小说")
	ErrChapterNotFound         = errors.New("章节不存在")
	ErrChapterSeqExist         = errors.New("章节序号已存在")
	ErrCommentNotFound         = errors.New("评论不存在")
	ErrRatingInvalid           = errors.New("评分超出范围")
	ErrActionDuplicate         = errors.New("重复操作")
	ErrNotificationNotFound    = errors.New("通知不存在")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserExist:               BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrUserEmailExist:          BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrFileNotSupported:        BadRequest,
	ErrUserFollowExist:         BadRequest,
	ErrUserFollowSelf:          BadRequest,
	ErrNovelNotFound:           NotFound,
	ErrNovelNotOwned:           Unauthorized,
	ErrChapterNotFound:         NotFound,
	ErrChapterSeqExist:         Conflict,
	ErrCommentNotFound:         NotFound,
	ErrRatingInvalid:           BadRequest,
	ErrActionDuplicate:         BadRequest,
	ErrNotificationNotFound:    NotFound,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
