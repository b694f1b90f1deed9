package mapper

import (
	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/model"
)

type AllowedUserMapper struct{}

func NewAllowedUserMapper() *AllowedUserMapper {
	return &AllowedUserMapper{}
}

func (m *AllowedUserMapper) ToEntity(u *model.AllowedUser) *entity.AllowedUser {
	if u == nil {
		return nil
	}
	return &entity.AllowedUser{
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func (m *AllowedUserMapper) ToModel(u *entity.AllowedUser) *model.AllowedUser {
	if u == nil {
		return nil
	}
	return &model.AllowedUser{
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
