package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/es"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/security"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, regDTO *dto.RegisterDTO) error
	Login(ctx context.Context, credentialDTO *dto.CredentialDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, userDTO *dto.UserDTO) error
	UpdatePassword(ctx context.Context, id uint64, pwdDTO *dto.ChangePasswordDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	esRepo   es.NovelRepo
}

func NewUserService(userRepo repository.UserRepo, esRepo es.NovelRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		esRepo:   esRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	if regDTO.Username == nil && regDTO.Email == nil {
		return ErrMissingLoginCredentials
	}

	if regDTO.Username != nil {
		existing, err := s.userRepo.GetUserByUsername(ctx, *regDTO.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrUserUsernameExist
		}
	}
	if regDTO.Email != nil {
		existing, err := s.userRepo.GetUserByEmail(ctx, *regDTO.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrUserEmailExist
		}
	}

	user := &model.User{}
	if err := copier.Copy(user, regDTO); err != nil {
		return err
	}
	user.AvatarURL = consts.DefaultAvatarURL

	passwordHash, err := security.HashPassword(*regDTO.Password)
	if err != nil {
		return err
	}
	user.Password = &passwordHash

	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return ErrUserExist
		}
		return err
	}
	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, credentialDTO *dto.CredentialDTO) (string, error) {
	var user *model.User
	var err error
	switch {
	case credentialDTO.Username != nil:
		user, err = s.userRepo.GetUserByUsername(ctx, *credentialDTO.Username)
	case credentialDTO.Email != nil:
		user, err = s.userRepo.GetUserByEmail(ctx, *credentialDTO.Email)
	default:
		return "", ErrMissingLoginCredentials
	}
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if user.IsBan {
		return "", ErrUserBan
	}

	if credentialDTO.Password == nil || user.Password == nil {
		return "", ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(*credentialDTO.Password, *user.Password); err != nil {
		return "", ErrPasswordIncorrect
	}

	return security.GenerateToken(user.ID)
}

// Logout 把 token 签名放进黑名单
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toUserDTO(user), nil
}

// GetUserSimpleInfoByIds 批量拉取展示信息，缓存单用户粒度
func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	result := make([]*dto.UserDTO, 0, len(ids))
	missed := make([]uint64, 0)

	for _, id := range ids {
		key := consts.UserSimpleInfoKey + strconv.FormatUint(id, 10)
		cached, err := redis.GetValue(ctx, key)
		if err != nil || cached == "" {
			missed = append(missed, id)
			continue
		}
		var userDTO dto.UserDTO
		if err = json.Unmarshal([]byte(cached), &userDTO); err != nil {
			missed = append(missed, id)
			continue
		}
		result = append(result, &userDTO)
	}

	if len(missed) > 0 {
		users, err := s.userRepo.GetUsersByIds(ctx, missed)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			userDTO := s.toUserDTO(user)
			result = append(result, userDTO)

			key := consts.UserSimpleInfoKey + strconv.FormatUint(user.ID, 10)
			if payload, err := json.Marshal(userDTO); err == nil {
				_ = redis.SetWithExpiration(ctx, key, payload, time.Hour*1)
			}
		}
	}
	return result, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, userDTO *dto.UserDTO) error {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if userDTO.Nickname != nil {
		user.Nickname = *userDTO.Nickname
	}

	if err = s.userRepo.UpdateUser(ctx, user); err != nil {
		return err
	}

	// 昵称变更要同步到作品索引的冗余字段
	if userDTO.Nickname != nil && s.esRepo != nil {
		if err = s.esRepo.UpdateAuthorDetail(ctx, id, *userDTO.Nickname); err != nil {
			log.WarnContext(ctx, "sync author nickname to es failed", "userID", id, "err", err)
		}
	}

	key := consts.UserSimpleInfoKey + strconv.FormatUint(id, 10)
	_ = redis.DeleteKey(ctx, key)
	return nil
}

func (s *UserServiceImpl) UpdatePassword(ctx context.Context, id uint64, pwdDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Password == nil {
		return ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(*pwdDTO.OldPassword, *user.Password); err != nil {
		return ErrPasswordIncorrect
	}

	passwordHash, err := security.HashPassword(*pwdDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = &passwordHash
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.AvatarURL = minio.GetPublicURL(objectName)
	if err = s.userRepo.UpdateUser(ctx, user); err != nil {
		return err
	}

	key := consts.UserSimpleInfoKey + strconv.FormatUint(id, 10)
	_ = redis.DeleteKey(ctx, key)
	return nil
}

func (s *UserServiceImpl) toUserDTO(user *model.User) *dto.UserDTO {
	return &dto.UserDTO{
		UserID:    &user.ID,
		Username:  user.Username,
		Nickname:  &user.Nickname,
		AvatarURL: &user.AvatarURL,
		CreatedAt: &user.CreatedAt,
	}
}
