package contract

import (
	"context"

	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/repository/specification"
)

type AllowedUserRepository interface {
	// Create inserts the username; an existing row is left untouched.
	Create(ctx context.Context, user *entity.AllowedUser) error
	Delete(ctx context.Context, username string) error
	Exists(ctx context.Context, username string) (bool, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AllowedUser, error)
}
