package repository

import (
	"gorm.io/gorm"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
)

// applyScope narrows a query to the actor's allow-set. Callers must check
// scope.Empty() first and short-circuit to zero rows; this helper is only
// for non-empty scopes.
func applyScope(q *gorm.DB, scope entity.Scope, column string) *gorm.DB {
	if scope.Unrestricted {
		return q
	}
	return q.Where(column+" IN ?", scope.CareHomeIDs)
}
