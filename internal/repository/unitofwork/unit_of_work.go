package unitofwork

import (
	"context"

	"ai-consultant-bot/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AllowedUserRepository() contract.AllowedUserRepository
	MessageLogRepository() contract.MessageLogRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
}
