package implementation

import (
	"context"

	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/mapper"
	"ai-consultant-bot/internal/model"
	"ai-consultant-bot/internal/repository/contract"
	"ai-consultant-bot/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageLogMapper
}

func NewMessageLogRepository(db *gorm.DB) contract.MessageLogRepository {
	return &MessageLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageLogMapper(),
	}
}

func (r *MessageLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageLogRepositoryImpl) Create(ctx context.Context, log *entity.MessageLog) error {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return contract.Wrap("messages.create", err)
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *MessageLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageLog, error) {
	var models []*model.MessageLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, contract.Wrap("messages.find_all", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MessageLogRepositoryImpl) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.MessageLog{})
	if res.Error != nil {
		return 0, contract.Wrap("messages.delete_by_username", res.Error)
	}
	return res.RowsAffected, nil
}
