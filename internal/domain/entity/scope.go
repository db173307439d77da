package entity

import "github.com/google/uuid"

// Scope is the allow-set of care-home ids an actor may read. It is either
// unrestricted (owner, carer reads) or restricted to an explicit set
// (manager). A restricted scope with no ids means the actor sees nothing:
// list calls must return zero rows, not an error and not everything.
type Scope struct {
	Unrestricted bool
	CareHomeIDs  []uuid.UUID
}

// UnrestrictedScope returns the sentinel scope with no row filtering.
func UnrestrictedScope() Scope {
	return Scope{Unrestricted: true}
}

// RestrictedScope returns a scope limited to the given care homes.
func RestrictedScope(ids []uuid.UUID) Scope {
	return Scope{CareHomeIDs: ids}
}

// Empty reports whether the scope denies everything.
func (s Scope) Empty() bool {
	return !s.Unrestricted && len(s.CareHomeIDs) == 0
}

// Allows reports whether the scope covers the given care home.
func (s Scope) Allows(careHomeID uuid.UUID) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.CareHomeIDs {
		if id == careHomeID {
			return true
		}
	}
	return false
}
