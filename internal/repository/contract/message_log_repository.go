package contract

import (
	"context"

	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/repository/specification"
)

type MessageLogRepository interface {
	Create(ctx context.Context, log *entity.MessageLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageLog, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}
