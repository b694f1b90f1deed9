package implementation

import (
	"context"

	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/mapper"
	"ai-consultant-bot/internal/model"
	"ai-consultant-bot/internal/repository/contract"
	"ai-consultant-bot/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AllowedUserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AllowedUserMapper
}

func NewAllowedUserRepository(db *gorm.DB) contract.AllowedUserRepository {
	return &AllowedUserRepositoryImpl{
		db:     db,
		mapper: mapper.NewAllowedUserMapper(),
	}
}

func (r *AllowedUserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AllowedUserRepositoryImpl) Create(ctx context.Context, user *entity.AllowedUser) error {
	m := r.mapper.ToModel(user)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m).Error
	return contract.Wrap("allowed_users.create", err)
}

func (r *AllowedUserRepositoryImpl) Delete(ctx context.Context, username string) error {
	err := r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.AllowedUser{}).Error
	return contract.Wrap("allowed_users.delete", err)
}

func (r *AllowedUserRepositoryImpl) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AllowedUser{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, contract.Wrap("allowed_users.exists", err)
	}
	return count > 0, nil
}

func (r *AllowedUserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AllowedUser, error) {
	var models []*model.AllowedUser
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, contract.Wrap("allowed_users.find_all", err)
	}
	entities := make([]*entity.AllowedUser, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
