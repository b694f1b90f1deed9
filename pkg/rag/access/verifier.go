package access

import (
	"context"
	"errors"
	"strings"

	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/internal/repository/unitofwork"
)

var ErrAccessDenied = errors.New("access denied")

// Verifier decides whether an identity may talk to the bot.
// Admins are matched exactly against the configured set and never reach the store.
type Verifier struct {
	admins     map[string]struct{}
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

// NewVerifier creates a new access verifier
func NewVerifier(admins []string, uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) *Verifier {
	set := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		a = strings.TrimSpace(a)
		if a != "" {
			set[a] = struct{}{}
		}
	}
	return &Verifier{admins: set, uowFactory: uowFactory, logger: logger}
}

func (v *Verifier) IsAdmin(identity string) bool {
	if identity == "" {
		return false
	}
	_, ok := v.admins[identity]
	return ok
}

// IsAllowed fails closed: a store error denies access.
func (v *Verifier) IsAllowed(ctx context.Context, identity string) bool {
	if identity == "" {
		return false
	}
	if v.IsAdmin(identity) {
		return true
	}
	if v.uowFactory == nil {
		return false
	}

	uow := v.uowFactory.NewUnitOfWork(ctx)
	ok, err := uow.AllowedUserRepository().Exists(ctx, identity)
	if err != nil {
		v.logger.Error("ACCESS", "Allow-list lookup failed, denying", map[string]interface{}{
			"identity": identity,
			"error":    err.Error(),
		})
		return false
	}
	return ok
}

// Check is IsAllowed in error form.
func (v *Verifier) Check(ctx context.Context, identity string) error {
	if !v.IsAllowed(ctx, identity) {
		return ErrAccessDenied
	}
	return nil
}
