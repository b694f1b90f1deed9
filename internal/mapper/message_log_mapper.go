package mapper

import (
	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/model"
)

type MessageLogMapper struct{}

func NewMessageLogMapper() *MessageLogMapper {
	return &MessageLogMapper{}
}

func (m *MessageLogMapper) ToEntity(l *model.MessageLog) *entity.MessageLog {
	if l == nil {
		return nil
	}
	return &entity.MessageLog{
		Id:        l.Id,
		Username:  l.Username,
		Message:   l.Message,
		Direction: entity.Direction(l.Direction),
		CreatedAt: l.CreatedAt,
	}
}

func (m *MessageLogMapper) ToModel(l *entity.MessageLog) *model.MessageLog {
	if l == nil {
		return nil
	}
	return &model.MessageLog{
		Id:        l.Id,
		Username:  l.Username,
		Message:   l.Message,
		Direction: string(l.Direction),
		CreatedAt: l.CreatedAt,
	}
}

func (m *MessageLogMapper) ToEntities(logs []*model.MessageLog) []*entity.MessageLog {
	entities := make([]*entity.MessageLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
