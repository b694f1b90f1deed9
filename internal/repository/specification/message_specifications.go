package specification

import (
	"ai-consultant-bot/internal/repository/scope"

	"gorm.io/gorm"
)

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// Scoped lifts a gorm scope into a Specification.
type Scoped func(db *gorm.DB) *gorm.DB

func (s Scoped) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(s)
}

// Chronological orders message log rows oldest first.
func Chronological() Specification {
	return Scoped(scope.OrderByCreatedAsc)
}
